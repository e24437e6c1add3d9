package digest

// System prompt for summarizing one top-level comment thread. The payload is
// the comment's JSON including its nested replies, so the prompt carries the
// weighting rules instead of the dispatcher.
const commentSummaryPrompt = `You are summarizing the comment thread of a single Reddit post.

The input is a JSON object for one top-level comment. It contains:
- "id": the identifier of the comment
- "text": the comment body
- "score": the comment's upvotes
- "replies": nested reply objects with the same structure

Write a detailed, comprehensive summary of the thread that:
- preserves as much information as possible from the comment and its replies
- gives more weight to high-score comments, quoting them verbatim where impactful
- captures all key points, arguments, and nuances of the discussion
- keeps the logical flow of the conversation

Respond with the summary text only, in clear English.`

// System prompt for the per-post description synthesized from the title and
// the comment summaries.
const descriptionPrompt = `You are writing a concise 3-4 sentence description of a Reddit post based on its title and summarized comments.

The input is a JSON object containing:
- "title": the title of the post
- "comment_summaries": summaries of the top-level comment threads (an entry may be empty if no summary is available)

Write 3-4 sentences that:
- clearly describe what the post and its discussion are about
- highlight the key points from the comment summaries
- cover the main issues or debates raised by commenters
- stay factual, with no reflections or opinions

Respond with the description text only.`
