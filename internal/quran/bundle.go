package quran

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ChapterBundle fetches the chapter, its verses and a recitation
// concurrently. The first failure cancels the others.
func (c *Client) ChapterBundle(ctx context.Context, chapter, reciter int) (Bundle, error) {
	var b Bundle
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ch, err := c.Chapter(ctx, chapter)
		b.Chapter = ch
		return err
	})
	g.Go(func() error {
		vs, err := c.Verses(ctx, chapter)
		b.Verses = vs
		return err
	})
	g.Go(func() error {
		rec, err := c.ChapterRecitation(ctx, reciter, chapter)
		b.Recitation = rec
		return err
	})

	if err := g.Wait(); err != nil {
		return Bundle{}, err
	}
	return b, nil
}
