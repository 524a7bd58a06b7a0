package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDownloadFilename(t *testing.T) {
	assert.Equal(t, "resume.pdf", downloadFilename(""))
	assert.Equal(t, "Backend Engineer.pdf", downloadFilename("Backend Engineer"))
	assert.Equal(t, "简历 (Copy 2).pdf", downloadFilename("简历 (Copy 2)"))

	long := strings.Repeat("a", 300)
	assert.Equal(t, long+".pdf", downloadFilename(long))
}
