package services

import (
	"github.com/stretchr/testify/mock"
)

// MockPublisher is a mock for the Publisher interface
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) SendToSession(sessionID, messageType string, data interface{}) {
	m.Called(sessionID, messageType, data)
}
