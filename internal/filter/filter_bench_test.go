package filter

import (
	"fmt"
	"testing"
	"time"

	"github.com/quickblog-api/internal/models"
)

func benchmarkPosts(n int) []*models.Post {
	posts := make([]*models.Post, n)
	base := time.Now()
	for i := 0; i < n; i++ {
		posts[i] = &models.Post{
			ID:        fmt.Sprintf("post-%06d", i),
			Title:     fmt.Sprintf("Post number %d about topic %d", i, i%17),
			Content:   "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor.",
			Tags:      []string{fmt.Sprintf("tag-%d", i%10), fmt.Sprintf("tag-%d", i%7)},
			Status:    models.StatusPublished,
			CreatedAt: base.Add(-time.Duration(i) * time.Hour),
		}
	}
	return posts
}

// BenchmarkApplyNewest benchmarks the default listing path
func BenchmarkApplyNewest(b *testing.B) {
	posts := benchmarkPosts(1000)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		Apply(posts, DefaultCriteria())
	}

	b.ReportMetric(float64(1000*b.N)/b.Elapsed().Seconds(), "posts/sec")
}

// BenchmarkApplySearchAlphabetical benchmarks search plus collated sorting
func BenchmarkApplySearchAlphabetical(b *testing.B) {
	posts := benchmarkPosts(1000)
	c := Criteria{Search: "topic 3", DateRange: RangeMonth, SortBy: SortAlphabetical}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		Apply(posts, c)
	}

	b.ReportMetric(float64(1000*b.N)/b.Elapsed().Seconds(), "posts/sec")
}

// BenchmarkTagCounts benchmarks the filter panel tag summary
func BenchmarkTagCounts(b *testing.B) {
	posts := benchmarkPosts(1000)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		TagCounts(posts)
	}
}
