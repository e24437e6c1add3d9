package digest

import (
	"fmt"
	"sort"

	"github.com/kova98/threadbrief/models"
)

// Score thresholds for keeping a comment: direct comments on a post need 10,
// replies at any deeper level need 3.
const (
	topLevelThreshold = 10
	replyThreshold    = 3
)

// FilterPosts ranks posts by descending score (stable, so equal scores keep
// their fetch order) and prunes each comment tree by the score thresholds.
// Synthetic IDs are derived from rank and retained-sibling position, so the
// same input always yields the same IDs.
func FilterPosts(posts []models.RawPost) []models.FilteredPost {
	sorted := make([]models.RawPost, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	filtered := make([]models.FilteredPost, 0, len(sorted))
	for i, post := range sorted {
		rank := i + 1
		postID := fmt.Sprintf("post_%d", rank)
		filtered = append(filtered, models.FilteredPost{
			ID:        postID,
			URL:       post.URL,
			RedditURL: post.RedditURL,
			Title:     post.Title,
			Upvotes:   post.Score,
			Rank:      rank,
			Comments:  filterComments(post.Comments, postID),
		})
	}

	return filtered
}

// filterComments walks the tree with an explicit stack, so pathologically deep
// threads cannot blow the goroutine stack. A node below its threshold is
// dropped together with its entire subtree.
func filterComments(comments []models.RawComment, postID string) []models.FilteredComment {
	type node struct {
		comment  models.FilteredComment
		children []int
	}
	type item struct {
		raw    *models.RawComment
		parent int // arena index, -1 for direct children of the post
	}

	var arena []node
	var roots []int

	// Push siblings in reverse so pop order matches input order.
	stack := make([]item, 0, len(comments))
	for i := len(comments) - 1; i >= 0; i-- {
		stack = append(stack, item{raw: &comments[i], parent: -1})
	}

	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		threshold := replyThreshold
		if it.parent == -1 {
			threshold = topLevelThreshold
		}
		if it.raw.Score < threshold {
			continue
		}

		var id string
		if it.parent == -1 {
			id = fmt.Sprintf("%s_c%d", postID, len(roots)+1)
		} else {
			parent := &arena[it.parent]
			id = fmt.Sprintf("%s_r%d", parent.comment.ID, len(parent.children)+1)
		}

		arena = append(arena, node{comment: models.FilteredComment{
			ID:    id,
			Text:  it.raw.Body,
			Score: it.raw.Score,
		}})
		idx := len(arena) - 1

		if it.parent == -1 {
			roots = append(roots, idx)
		} else {
			arena[it.parent].children = append(arena[it.parent].children, idx)
		}

		for i := len(it.raw.Replies) - 1; i >= 0; i-- {
			stack = append(stack, item{raw: &it.raw.Replies[i], parent: idx})
		}
	}

	// Children always sit at higher arena indexes than their parent, so a
	// reverse pass assembles subtrees bottom-up.
	built := make([]models.FilteredComment, len(arena))
	for i := len(arena) - 1; i >= 0; i-- {
		comment := arena[i].comment
		if len(arena[i].children) > 0 {
			comment.Replies = make([]models.FilteredComment, 0, len(arena[i].children))
			for _, child := range arena[i].children {
				comment.Replies = append(comment.Replies, built[child])
			}
		}
		built[i] = comment
	}

	result := make([]models.FilteredComment, 0, len(roots))
	for _, root := range roots {
		result = append(result, built[root])
	}

	return result
}
