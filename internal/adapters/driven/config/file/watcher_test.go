package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

func TestPromptWatcher_HandleEvent(t *testing.T) {
	tests := []struct {
		name       string
		file       string
		operation  fsnotify.Op
		wantReload bool
	}{
		{"write prompt", "answer_user.txt", fsnotify.Write, true},
		{"create prompt", "answer_system.txt", fsnotify.Create, true},
		{"remove prompt", "answer_user.txt", fsnotify.Remove, true},
		{"rename prompt", "answer_user.txt", fsnotify.Rename, true},
		{"chmod ignored", "answer_user.txt", fsnotify.Chmod, false},
		{"readme ignored", "README.md", fsnotify.Write, false},
		{"hidden ignored", ".answer_user.txt", fsnotify.Write, false},
		{"write with chmod", "answer_user.txt", fsnotify.Write | fsnotify.Chmod, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, dir := newTestPromptStore(t)
			w := &PromptWatcher{store: store}

			_, err := store.Load(driven.PromptAnswerUser)
			require.NoError(t, err)
			require.NoError(t, os.WriteFile(filepath.Join(dir, "answer_user.txt"), []byte("changed"), 0600))

			got := w.handleEvent(fsnotify.Event{Name: filepath.Join(dir, tt.file), Op: tt.operation})
			assert.Equal(t, tt.wantReload, got)

			prompt, err := store.Load(driven.PromptAnswerUser)
			require.NoError(t, err)
			if tt.wantReload {
				assert.Equal(t, "changed", prompt)
			} else {
				assert.Equal(t, testDefaults[driven.PromptAnswerUser], prompt)
			}
		})
	}
}

func TestPromptWatcher_ReloadsOnWrite(t *testing.T) {
	store, dir := newTestPromptStore(t)

	w, err := NewPromptWatcher(store)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	_, err = store.Load(driven.PromptAnswerSystem)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "answer_system.txt"), []byte("hot reloaded"), 0600))

	assert.Eventually(t, func() bool {
		prompt, err := store.Load(driven.PromptAnswerSystem)
		return err == nil && prompt == "hot reloaded"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestPromptWatcher_CloseIsIdempotent(t *testing.T) {
	store, _ := newTestPromptStore(t)

	w, err := NewPromptWatcher(store)
	require.NoError(t, err)
	w.Start(context.Background())

	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
