package omnicomment

import "errors"

// Validation errors, returned before any call to GitHub
var (
	ErrIssueNumberRequired = errors.New("issue number is required")
	ErrRepoRequired        = errors.New("repo is required")
	ErrSectionRequired     = errors.New("section is required")
	ErrTokenRequired       = errors.New("token is required")
)
