package comment

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCommentBody is returned when a managed comment has lost its body
	ErrEmptyCommentBody = errors.New("comment body is empty")
)

// OpError represents a failed operation on a managed comment
type OpError struct {
	Op      string // find, create or update
	Issue   int    // Issue or pull request number (if applicable)
	Comment int64  // Comment ID (if applicable)
	Err     error  // Underlying error
}

func (e *OpError) Error() string {
	switch {
	case e.Comment != 0:
		return fmt.Sprintf("comment %s failed for comment %d: %v", e.Op, e.Comment, e.Err)
	case e.Issue != 0:
		return fmt.Sprintf("comment %s failed on #%d: %v", e.Op, e.Issue, e.Err)
	}
	return fmt.Sprintf("comment %s failed: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func issueError(op string, issue int, err error) error {
	return &OpError{Op: op, Issue: issue, Err: err}
}

func commentError(op string, commentID int64, err error) error {
	return &OpError{Op: op, Comment: commentID, Err: err}
}
