package toast

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/riordanpawley/spinquiz/internal/types"
	"github.com/riordanpawley/spinquiz/internal/ui/styles"
	"github.com/stretchr/testify/assert"
)

func TestRenderer_Empty(t *testing.T) {
	assert.Equal(t, "", New(styles.New()).Render(nil, 80))
}

func TestRenderer_Stack(t *testing.T) {
	r := New(styles.New())
	expires := time.Now().Add(5 * time.Second)

	out := r.Render([]types.Toast{
		{Level: types.ToastInfo, Message: "Anna is aan de beurt", Expires: expires},
		{Level: types.ToastSuccess, Message: "Task pinned", Expires: expires},
		{Level: types.ToastError, Message: "No review scheduled", Expires: expires},
	}, 120)

	assert.Contains(t, out, "Anna is aan de beurt")
	assert.Contains(t, out, "✓ Task pinned")
	assert.Contains(t, out, "✗ No review scheduled")
	assert.Greater(t, len(strings.Split(out, "\n")), 3)
}

func TestRenderer_CapsVisible(t *testing.T) {
	r := New(styles.New())
	var toasts []types.Toast
	for i := 0; i < MaxVisible+2; i++ {
		toasts = append(toasts, types.Toast{Level: types.ToastInfo, Message: fmt.Sprintf("toast-%d", i)})
	}

	out := r.Render(toasts, 120)

	assert.NotContains(t, out, "toast-0")
	assert.NotContains(t, out, "toast-1")
	assert.Contains(t, out, fmt.Sprintf("toast-%d", MaxVisible+1))
}

func TestRenderer_NarrowWidth(t *testing.T) {
	out := New(styles.New()).Render([]types.Toast{{Level: types.ToastWarning, Message: "hi"}}, 10)
	assert.Contains(t, out, "hi")
}

func TestNoticeToast(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	ok := types.Notice{Message: "done", Kind: types.NoticeSuccess, TimeoutMs: 2500}.Toast(now)
	assert.Equal(t, types.ToastSuccess, ok.Level)
	assert.Equal(t, now.Add(2500*time.Millisecond), ok.Expires)

	bad := types.Notice{Message: "nope", Kind: types.NoticeError, TimeoutMs: 4000}.Toast(now)
	assert.Equal(t, types.ToastError, bad.Level)
	assert.Equal(t, "nope", bad.Message)
}
