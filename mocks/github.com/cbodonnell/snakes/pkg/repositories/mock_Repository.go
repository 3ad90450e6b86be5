package repositories

import (
	context "context"

	scores "github.com/cbodonnell/snakes/pkg/scores"
	mock "github.com/stretchr/testify/mock"
)

// MockRepository is a mock type for the Repository type
type MockRepository struct {
	mock.Mock
}

type MockRepository_Expecter struct {
	mock *mock.Mock
}

func (_m *MockRepository) EXPECT() *MockRepository_Expecter {
	return &MockRepository_Expecter{mock: &_m.Mock}
}

// Close provides a mock function with given fields: ctx
func (_m *MockRepository) Close(ctx context.Context) error {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Close")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context) error); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockRepository_Close_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Close'
type MockRepository_Close_Call struct {
	*mock.Call
}

// Close is a helper method to define mock.On call
//   - ctx context.Context
func (_e *MockRepository_Expecter) Close(ctx interface{}) *MockRepository_Close_Call {
	return &MockRepository_Close_Call{Call: _e.mock.On("Close", ctx)}
}

func (_c *MockRepository_Close_Call) Return(_a0 error) *MockRepository_Close_Call {
	_c.Call.Return(_a0)
	return _c
}

// LoadScores provides a mock function with given fields: ctx
func (_m *MockRepository) LoadScores(ctx context.Context) ([]scores.Entry, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for LoadScores")
	}

	var r0 []scores.Entry
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) ([]scores.Entry, error)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) []scores.Entry); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]scores.Entry)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockRepository_LoadScores_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'LoadScores'
type MockRepository_LoadScores_Call struct {
	*mock.Call
}

// LoadScores is a helper method to define mock.On call
//   - ctx context.Context
func (_e *MockRepository_Expecter) LoadScores(ctx interface{}) *MockRepository_LoadScores_Call {
	return &MockRepository_LoadScores_Call{Call: _e.mock.On("LoadScores", ctx)}
}

func (_c *MockRepository_LoadScores_Call) Return(_a0 []scores.Entry, _a1 error) *MockRepository_LoadScores_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

// SaveScores provides a mock function with given fields: ctx, entries
func (_m *MockRepository) SaveScores(ctx context.Context, entries []scores.Entry) error {
	ret := _m.Called(ctx, entries)

	if len(ret) == 0 {
		panic("no return value specified for SaveScores")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, []scores.Entry) error); ok {
		r0 = rf(ctx, entries)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockRepository_SaveScores_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'SaveScores'
type MockRepository_SaveScores_Call struct {
	*mock.Call
}

// SaveScores is a helper method to define mock.On call
//   - ctx context.Context
//   - entries []scores.Entry
func (_e *MockRepository_Expecter) SaveScores(ctx interface{}, entries interface{}) *MockRepository_SaveScores_Call {
	return &MockRepository_SaveScores_Call{Call: _e.mock.On("SaveScores", ctx, entries)}
}

func (_c *MockRepository_SaveScores_Call) Return(_a0 error) *MockRepository_SaveScores_Call {
	_c.Call.Return(_a0)
	return _c
}

// NewMockRepository creates a new instance of MockRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRepository {
	mock := &MockRepository{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
