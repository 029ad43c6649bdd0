package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	perr "toxicbot/internal/platform/errors"
)

// Comment is the subset of the GitHub comment resource the bot reads back
type Comment struct {
	ID      int64  `json:"id"`
	HTMLURL string `json:"html_url"`
}

type commentBody struct {
	Body string `json:"body"`
}

// CreateIssueComment posts a top-level comment on an issue or pull request
func (c *Client) CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) error {
	if err := checkTarget(owner, repo, number); err != nil {
		return err
	}
	path := fmt.Sprintf("/repos/%s/%s/issues/%d/comments", url.PathEscape(owner), url.PathEscape(repo), number)
	var out Comment
	if err := c.Do(ctx, http.MethodPost, path, commentBody{Body: body}, &out); err != nil {
		c.failed(err, owner, repo, number)
		return perr.WithOp(err, "github.create_issue_comment")
	}
	c.log.Info().Str("repo", owner+"/"+repo).Int("number", number).Int64("comment_id", out.ID).Msg("github comment posted")
	return nil
}

// CreateReviewCommentReply replies in the thread of a pull request review comment
func (c *Client) CreateReviewCommentReply(ctx context.Context, owner, repo string, number int, commentID int64, body string) error {
	if err := checkTarget(owner, repo, number); err != nil {
		return err
	}
	if commentID <= 0 {
		return perr.WithField(perr.InvalidArgf("github reply needs a review comment id"), "comment_id")
	}
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d/comments/%d/replies", url.PathEscape(owner), url.PathEscape(repo), number, commentID)
	var out Comment
	if err := c.Do(ctx, http.MethodPost, path, commentBody{Body: body}, &out); err != nil {
		c.failed(err, owner, repo, number)
		return perr.WithOp(err, "github.create_review_reply")
	}
	c.log.Info().Str("repo", owner+"/"+repo).Int("number", number).Int64("in_reply_to", commentID).Int64("comment_id", out.ID).Msg("github reply posted")
	return nil
}

// failed logs a post that did not land; a rate limited one is worth a retry later
func (c *Client) failed(err error, owner, repo string, number int) {
	c.log.Warn().Err(err).
		Str("repo", owner+"/"+repo).
		Int("number", number).
		Int("status", StatusOf(err)).
		Bool("rate_limited", IsRateLimited(err)).
		Msg("github post failed")
}

func checkTarget(owner, repo string, number int) error {
	if owner == "" || repo == "" {
		return perr.WithField(perr.InvalidArgf("github target needs owner and repo"), "repo")
	}
	if number <= 0 {
		return perr.WithField(perr.InvalidArgf("github target needs a positive number, got %d", number), "number")
	}
	return nil
}
