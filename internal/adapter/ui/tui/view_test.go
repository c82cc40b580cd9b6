package tui

import (
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/gopraise/internal/domain"
	"github.com/tejashwikalptaru/gopraise/internal/testutil"
)

type collectingSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (c *collectingSender) Send(msg tea.Msg) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
}

func (c *collectingSender) received() []tea.Msg {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]tea.Msg(nil), c.msgs...)
}

func TestProgramView_ForwardsInOrder(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	view := NewProgramView()
	view.ShowLoading("praise/")
	view.SetPlaybackStatus(domain.StatusPlaying)

	sender := &collectingSender{}
	view.Attach(sender)
	view.ShowNotification("hello")

	require.Eventually(t, func() bool { return len(sender.received()) == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []tea.Msg{
		loadingMsg{dir: "praise/"},
		statusMsg{status: domain.StatusPlaying},
		notificationMsg{text: "hello"},
	}, sender.received())

	view.Close()
	view.ShowNotification("dropped")
	assert.Len(t, sender.received(), 3)
}

func TestProgramView_CloseWithoutAttach(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	view := NewProgramView()
	view.ShowHistory(nil)
	view.Close()
	view.Close()
}
