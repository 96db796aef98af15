package testable

import "os"

// MockFileSystem is a test double for FileSystem. A non-nil function field
// replaces the matching method; nil fields fall through to OsFileSystem.
type MockFileSystem struct {
	AbsFn    func(path string) (string, error)
	StatFn   func(name string) (os.FileInfo, error)
	CreateFn func(name string) (*os.File, error)
}

var real OsFileSystem

// Abs calls AbsFn if set, otherwise delegates to OsFileSystem.
func (m *MockFileSystem) Abs(path string) (string, error) {
	if m.AbsFn != nil {
		return m.AbsFn(path)
	}
	return real.Abs(path)
}

// Stat calls StatFn if set, otherwise delegates to OsFileSystem.
func (m *MockFileSystem) Stat(name string) (os.FileInfo, error) {
	if m.StatFn != nil {
		return m.StatFn(name)
	}
	return real.Stat(name)
}

// Create calls CreateFn if set, otherwise delegates to OsFileSystem.
func (m *MockFileSystem) Create(name string) (*os.File, error) {
	if m.CreateFn != nil {
		return m.CreateFn(name)
	}
	return real.Create(name)
}

// Compile-time interface check.
var _ FileSystem = (*MockFileSystem)(nil)
