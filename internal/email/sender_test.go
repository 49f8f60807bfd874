package email

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogSender_Send(t *testing.T) {
	err := LogSender{}.Send(context.Background(), "a@b.com", "Newsletter: Solar", strings.Repeat("x", 500))
	assert.NoError(t, err)
}
