package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"foodgram-backend/pkg/logger"
)

// PrefixLister: *storage.MinIOStorage
type PrefixLister interface {
	ListPrefixes(ctx context.Context, root string, modifiedBefore time.Time) ([]string, error)
}

// ImageKeyLookup: recipe repository
type ImageKeyLookup interface {
	ImageKeysInUse(ctx context.Context, prefixes []string) (map[string]bool, error)
}

// ImageSweeper xóa thư mục ảnh không còn recipe nào tham chiếu
// (upload xong nhưng transaction rollback và dọn dẹp tức thời cũng lỗi)
type ImageSweeper interface {
	Sweep(ctx context.Context) (int, error)
}

type imageSweeper struct {
	lister PrefixLister
	keys   ImageKeyLookup
	images ImageService
	grace  time.Duration
	now    func() time.Time
}

// NewImageSweeper - grace: chỉ xét thư mục không đổi trong khoảng này,
// tránh đụng ảnh của request đang tạo recipe
func NewImageSweeper(lister PrefixLister, keys ImageKeyLookup, images ImageService, grace time.Duration) ImageSweeper {
	return &imageSweeper{
		lister: lister,
		keys:   keys,
		images: images,
		grace:  grace,
		now:    time.Now,
	}
}

func (s *imageSweeper) Sweep(ctx context.Context) (int, error) {
	// Step 1: thư mục cũ hơn grace
	prefixes, err := s.lister.ListPrefixes(ctx, imagePrefixRoot, s.now().Add(-s.grace))
	if err != nil {
		return 0, fmt.Errorf("list image prefixes: %w", err)
	}
	if len(prefixes) == 0 {
		return 0, nil
	}

	// Step 2: bỏ qua prefix còn được dùng
	inUse, err := s.keys.ImageKeysInUse(ctx, prefixes)
	if err != nil {
		return 0, err
	}

	// Step 3: xóa phần còn lại, lỗi từng prefix không dừng cả lượt
	removed := 0
	for _, prefix := range prefixes {
		if inUse[prefix] {
			continue
		}
		if err := s.images.DeleteImages(ctx, prefix); err != nil {
			logger.Warn("Failed to sweep orphan images", map[string]interface{}{
				"prefix": prefix,
				"error":  err.Error(),
			})
			continue
		}
		removed++
	}

	log.Info().
		Int("scanned", len(prefixes)).
		Int("removed", removed).
		Msg("Orphan image sweep finished")
	return removed, nil
}
