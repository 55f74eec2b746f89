// Package gallery manages the ordered photo collection shown on the site.
package gallery

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/neighborhoodkrew/krew-leads-platform/internal/kv"
)

// ErrEmptyURL is returned when a URL insert carries no URL.
var ErrEmptyURL = errors.New("gallery: url is required")

// DefaultAlt is the caption for URL-based inserts.
const DefaultAlt = "Gallery photo"

// Item is one displayed image: a URL or an embedded data: URI, newest first.
type Item struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
	TS  int64  `json:"ts"` // unix milliseconds at insertion
}

// Upload is one file received for embedding.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// Store owns the gallery collection. All mutations are load-mutate-save under
// one mutex, so a batch insert lands as a single write.
type Store struct {
	mu   sync.Mutex
	coll *kv.Collection[Item]
	now  func() time.Time
}

// NewStore creates a gallery store.
func NewStore(store kv.Store) *Store {
	return &Store{
		coll: kv.NewCollection[Item](store, kv.KeyGallery),
		now:  time.Now,
	}
}

// List returns all items, newest first.
func (s *Store) List(ctx context.Context) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coll.Load(ctx)
}

// AddURL prepends one item referencing an external image URL.
func (s *Store) AddURL(ctx context.Context, url string) (Item, error) {
	if url == "" {
		return Item{}, ErrEmptyURL
	}

	item := Item{Src: url, Alt: DefaultAlt, TS: s.now().UnixMilli()}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.coll.Load(ctx)
	if err != nil {
		return Item{}, err
	}
	if err := s.coll.Save(ctx, append([]Item{item}, items...)); err != nil {
		return Item{}, err
	}
	return item, nil
}

// AddFiles embeds every upload as a data: URI and prepends the whole batch,
// in input order, ahead of the existing items with one write. The encodes run
// concurrently and are joined before anything is stored; one bad file fails
// the batch and nothing is written.
func (s *Store) AddFiles(ctx context.Context, uploads []Upload) ([]Item, error) {
	if len(uploads) == 0 {
		return nil, nil
	}

	ts := s.now().UnixMilli()
	batch := make([]Item, len(uploads))
	errs := make([]error, len(uploads))

	var wg sync.WaitGroup
	for i, upload := range uploads {
		wg.Add(1)
		go func(i int, upload Upload) {
			defer wg.Done()
			item, err := embed(upload, ts)
			if err != nil {
				errs[i] = err
				return
			}
			batch[i] = item
		}(i, upload)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.coll.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.coll.Save(ctx, append(append([]Item{}, batch...), items...)); err != nil {
		return nil, err
	}
	return batch, nil
}

// RemoveAt deletes the item at the given position. An out-of-range index is
// a no-op.
func (s *Store) RemoveAt(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.coll.Load(ctx)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(items) {
		return nil
	}
	return s.coll.Save(ctx, append(items[:index], items[index+1:]...))
}

// embed renders an upload as a data: URI item. The MIME type is taken from
// the upload when present, sniffed from the bytes otherwise.
func embed(upload Upload, ts int64) (Item, error) {
	if len(upload.Data) == 0 {
		return Item{}, fmt.Errorf("gallery: empty file %q", upload.Name)
	}

	contentType := upload.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(upload.Data)
	}

	src := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(upload.Data))
	alt := upload.Name
	if alt == "" {
		alt = "Uploaded photo"
	}
	return Item{Src: src, Alt: alt, TS: ts}, nil
}
