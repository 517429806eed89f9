package telegram

import (
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// defaultMaxChats bounds how many chats keep history; the least recently
// active chat is dropped first.
const defaultMaxChats = 1000

type exchange struct {
	user, assistant string
}

// history keeps the last few exchanges per chat so follow-ups such as
// "write them an intro" have something to refer to.
type history struct {
	mu    sync.Mutex
	turns int
	chats *lru.Cache[int64, []exchange]
}

func newHistory(turns, maxChats int) *history {
	if maxChats <= 0 {
		maxChats = defaultMaxChats
	}
	chats, err := lru.New[int64, []exchange](maxChats)
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	return &history{turns: turns, chats: chats}
}

func (h *history) add(chatID int64, user, assistant string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	prev, _ := h.chats.Get(chatID)
	ex := append(append([]exchange(nil), prev...), exchange{user: user, assistant: assistant})
	if len(ex) > h.turns {
		ex = ex[len(ex)-h.turns:]
	}
	h.chats.Add(chatID, ex)
}

func (h *history) reset(chatID int64) {
	h.chats.Remove(chatID)
}

func (h *history) len() int {
	return h.chats.Len()
}

func (h *history) render(chatID int64) string {
	ex, _ := h.chats.Get(chatID)

	var b strings.Builder
	for _, e := range ex {
		b.WriteString("User: " + e.user + "\n")
		b.WriteString("Assistant: " + e.assistant + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
