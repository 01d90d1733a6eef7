// Package browse computes the library's client-side derived views: the
// popular and featured sections, the title filter, and per-section paging.
// Everything here is recomputed from the fetched set and never persisted.
package browse

import (
	"math/rand"
	"sort"
	"strings"

	"quipvid/internal/domain"
)

// Popular returns the top n videos by view count, descending.
func Popular(videos []domain.Video, n int) []domain.Video {
	sorted := make([]domain.Video, len(videos))
	copy(sorted, videos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Views > sorted[j].Views
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Featured returns n videos sampled uniformly without replacement, or the
// whole set when there are fewer than n.
func Featured(videos []domain.Video, n int, rng *rand.Rand) []domain.Video {
	if len(videos) == 0 {
		return []domain.Video{}
	}
	sample := make([]domain.Video, len(videos))
	copy(sample, videos)
	rng.Shuffle(len(sample), func(i, j int) {
		sample[i], sample[j] = sample[j], sample[i]
	})
	if len(sample) > n {
		sample = sample[:n]
	}
	return sample
}

// FilterByTitle keeps videos whose title contains the query,
// case-insensitively. An empty query keeps everything.
func FilterByTitle(videos []domain.Video, query string) []domain.Video {
	if query == "" {
		return videos
	}
	q := strings.ToLower(query)
	filtered := []domain.Video{}
	for _, v := range videos {
		if strings.Contains(strings.ToLower(v.Title), q) {
			filtered = append(filtered, v)
		}
	}
	return filtered
}
