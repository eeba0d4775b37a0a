package minter

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Notifier shows short messages to the user.
type Notifier interface {
	Alert(ctx context.Context, message string)
}

type writerNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterNotifier(w io.Writer) *writerNotifier {
	return &writerNotifier{w: w}
}

func (n *writerNotifier) Alert(ctx context.Context, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	fmt.Fprintln(n.w, message)
}
