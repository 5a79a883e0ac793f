package extract

import (
	"sort"
	"time"

	"github.com/thegenyia/tiktok-trends-lite/pkg/types"
)

// itemCollectionKey maps opaque item ids to the raw video entries.
const itemCollectionKey = "ItemModule"

// Normalize walks the hydration state's item collection and reconciles the
// platform's inconsistent field names into canonical video records. The
// collection is truncated to maxItems before filtering, so fewer records may
// come back; noise records without a resolvable URL are dropped. Absent or
// malformed input degrades to an empty slice, never an error.
func Normalize(state map[string]any, maxItems int) []types.Video {
	records := make([]types.Video, 0)

	items := asMap(state[itemCollectionKey])
	if len(items) == 0 || maxItems <= 0 {
		return records
	}

	// Map iteration order is random in Go; sort the opaque ids so identical
	// input always yields the same output order.
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if len(ids) > maxItems {
		ids = ids[:maxItems]
	}

	for _, id := range ids {
		item := asMap(items[id])
		if item == nil {
			continue
		}
		record := normalizeItem(item)
		if record.URL == "" {
			continue
		}
		records = append(records, record)
	}
	return records
}

func normalizeItem(item map[string]any) types.Video {
	id := firstString(item, "id", "aweme_id")

	author := strField(item, "author")
	if author == "" {
		author = strField(asMap(item["authorInfo"]), "uniqueId")
	}

	link := firstString(item, "shareUrl", "videoUrl")
	if link == "" && author != "" && id != "" {
		link = VideoURL(author, id)
	}

	stats := asMap(item["stats"])
	video := asMap(item["video"])
	music := asMap(item["music"])

	return types.Video{
		ID:       id,
		Title:    firstString(item, "desc", "title"),
		Author:   author,
		URL:      link,
		Cover:    strPtrFirst(video, "cover", "dynamicCover", "originCover"),
		Duration: intField(video, "duration"),
		Music: types.Music{
			Title:  strPtrFirst(music, "title"),
			Author: strPtrFirst(music, "authorName"),
		},
		Stats: types.Stats{
			Views:     intField(stats, "playCount"),
			Likes:     firstInt(stats, "diggCount", "likeCount"),
			Comments:  intField(stats, "commentCount"),
			Shares:    intField(stats, "shareCount"),
			Bookmarks: intField(stats, "collectCount"),
		},
		PublishedAt: publishedAt(item),
		Hashtags:    hashtags(item),
	}
}

// publishedAt converts the raw epoch-seconds createTime into RFC 3339.
// A createTime that does not parse as a number yields nil.
func publishedAt(item map[string]any) *string {
	raw, ok := item["createTime"]
	if !ok {
		return nil
	}
	seconds, ok := asInt64(raw)
	if !ok {
		return nil
	}
	stamp := time.Unix(seconds, 0).UTC().Format(time.RFC3339)
	return &stamp
}

// hashtags collects bare tag names from the item's text annotations,
// preserving their original order.
func hashtags(item map[string]any) []string {
	names := make([]string, 0)
	for _, entry := range asSlice(item["textExtra"]) {
		if name := strField(asMap(entry), "hashtagName"); name != "" {
			names = append(names, name)
		}
	}
	return names
}
