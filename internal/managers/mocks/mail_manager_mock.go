package mocks

import "github.com/stretchr/testify/mock"

type MockMailManager struct {
	mock.Mock
}

func (m *MockMailManager) SendActivationMail(email, fullName, activationLink string) error {
	args := m.Called(email, fullName, activationLink)
	return args.Error(0)
}

func (m *MockMailManager) SendResetPasswordMail(email, fullName, resetLink string) error {
	args := m.Called(email, fullName, resetLink)
	return args.Error(0)
}

func (m *MockMailManager) SendConfirmationMail(email, fullName string) error {
	args := m.Called(email, fullName)
	return args.Error(0)
}
