package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/tartil/internal/recitation"
	"github.com/llehouerou/tartil/internal/ui/testutil"
)

func TestResolveChapter_Numbers(t *testing.T) {
	e := &env{}
	tests := []struct {
		arg     string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{" 18 ", 18, false},
		{"114", 114, false},
		{"0", 0, true},
		{"115", 0, true},
		{"-3", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			ch, err := e.resolveChapter(context.Background(), tt.arg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ch.ID)
		})
	}
}

func TestAudioMIME(t *testing.T) {
	assert.Equal(t, "audio/mpeg", audioMIME("take1.MP3"))
	assert.Equal(t, "application/octet-stream", audioMIME("take1"))
}

func TestRenderWords(t *testing.T) {
	got := testutil.StripANSI(renderWords([]recitation.WordResult{
		{Expected: "bismi", Spoken: "bismi", Status: recitation.WordCorrect},
		{Expected: "allahi", Spoken: "allah", Status: recitation.WordSubstituted},
		{Expected: "alrrahmani", Status: recitation.WordMissed},
		{Spoken: "wa", Status: recitation.WordExtra},
	}))
	assert.Equal(t, "bismi allah≠allahi alrrahmani +wa", got)
}

func TestCommandContext(t *testing.T) {
	c := &cobra.Command{}
	assert.NotNil(t, commandContext(c))

	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")
	c.SetContext(ctx)
	assert.Equal(t, "v", commandContext(c).Value(key{}))
}

func TestCommandTree(t *testing.T) {
	for _, name := range []string{"play", "serve", "chapters", "search", "translit", "recite", "leaderboard", "bookmarks"} {
		c, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, c.Name())
	}
	c, _, err := rootCmd.Find([]string{"bookmarks", "add"})
	require.NoError(t, err)
	assert.Equal(t, "add", c.Name())
}

func TestTranslit_TextNeedsNoServices(t *testing.T) {
	c := &cobra.Command{}
	c.Flags().StringP("chapter", "c", "", "")
	var out bytes.Buffer
	c.SetOut(&out)
	require.NoError(t, runTranslit(c, []string{"بسم"}))
	assert.NotEmpty(t, out.String())

	assert.Error(t, runTranslit(c, nil))
}
