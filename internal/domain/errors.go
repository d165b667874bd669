package domain

import "errors"

var (
	// ErrEncoding is returned when a form label has no feature encoding.
	ErrEncoding = errors.New("encoding error")
	// ErrClassifierFit halts every further assessment in the session.
	ErrClassifierFit = errors.New("classifier fit failed")
	// ErrClassifierInference aborts the current assessment only.
	ErrClassifierInference = errors.New("classifier inference failed")

	ErrInvalidInput    = errors.New("invalid patient input")
	ErrSessionNotFound = errors.New("session not found")
	ErrNoAssessment    = errors.New("no assessment in session")
	// ErrLoggedOut 已退出登录的会话需要先 Get Started
	ErrLoggedOut = errors.New("session is logged out")
)
