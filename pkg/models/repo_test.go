package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepo(t *testing.T) {
	tests := []struct {
		name  string
		input string
		owner string
		repo  string
	}{
		{name: "owner/repo", input: "mskelton/omni-comment", owner: "mskelton", repo: "omni-comment"},
		{name: "git suffix", input: "mskelton/omni-comment.git", owner: "mskelton", repo: "omni-comment"},
		{name: "https url", input: "https://github.com/mskelton/omni-comment", owner: "mskelton", repo: "omni-comment"},
		{name: "https url with git suffix", input: "https://github.com/mskelton/omni-comment.git", owner: "mskelton", repo: "omni-comment"},
		{name: "trailing slash", input: "mskelton/omni-comment/", owner: "mskelton", repo: "omni-comment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, err := ParseRepo(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.owner, rc.Owner)
			assert.Equal(t, tt.repo, rc.Repo)
			assert.Equal(t, tt.owner+"/"+tt.repo, rc.FullName())
		})
	}
}

func TestParseRepoInvalid(t *testing.T) {
	for _, input := range []string{"", "test-repo", "test-repo.git", "/repo", "owner/"} {
		_, err := ParseRepo(input)
		assert.Error(t, err, input)
		assert.True(t, errors.Is(err, ErrInvalidRepo), input)
	}
}
