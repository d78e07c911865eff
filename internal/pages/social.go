package pages

import (
	"fmt"
	"strconv"
)

var (
	locFeed           = css(".social-feed", "social feed")
	locComposer       = css("textarea#post-composer", "post composer")
	locPostSubmit     = testID("post-submit", "post submit button")
	locFirstPost      = css(".social-feed .post-card:first-child", "first feed post")
	locFirstPostBody  = css(".social-feed .post-card:first-child .post-content", "first post content")
	locFirstPostLike  = css(".social-feed .post-card:first-child button.like-button", "first post like button")
	locFirstPostLikes = css(".social-feed .post-card:first-child .like-count", "first post like count")
	locCommentInput   = css(".social-feed .post-card:first-child input.comment-input", "first post comment input")
	locCommentSubmit  = css(".social-feed .post-card:first-child button.comment-submit", "first post comment button")
	locConfirmDelete  = testID("confirm-delete", "delete confirmation button")
)

func postByContent(content string) Locator {
	return css(fmt.Sprintf(`.post-card:has-text("%s")`, content), "post "+content)
}

func postDeleteByContent(content string) Locator {
	return css(fmt.Sprintf(`.post-card:has-text("%s") button.delete-post`, content), "delete button of post "+content)
}

func postCommentByText(content, text string) Locator {
	return css(fmt.Sprintf(`.post-card:has-text("%s") .comment:has-text("%s")`, content, text),
		fmt.Sprintf("comment %q on post %q", text, content))
}

// SocialPage is the feed screen.
type SocialPage struct {
	Base
}

func NewSocialPage(env Env) *SocialPage {
	return &SocialPage{Base: newBase(env, "social", "/social", []Locator{locFeed, locComposer})}
}

// CreatePost publishes content and returns once the success toast fired
// and the new post tops the feed.
func (p *SocialPage) CreatePost(content string) error {
	if err := p.Type(locComposer, content); err != nil {
		return err
	}
	if err := p.Click(locPostSubmit); err != nil {
		return err
	}
	if err := p.WaitSuccessToast(); err != nil {
		return err
	}
	return p.WaitFor("new post tops the feed", 0, func() bool {
		got, err := p.FirstPostContent()
		return err == nil && got == content
	})
}

// FirstPostContent returns the content of the newest feed entry.
func (p *SocialPage) FirstPostContent() (string, error) {
	return p.TextOf(locFirstPostBody)
}

// IsPostVisible reports whether any post with the given content is in
// the feed.
func (p *SocialPage) IsPostVisible(content string) bool {
	return p.IsPresent(postByContent(content))
}

// LikeFirstPost likes the newest post and waits for the counter delta.
func (p *SocialPage) LikeFirstPost() error {
	before, err := p.FirstPostLikeCount()
	if err != nil {
		return err
	}
	if err := p.Click(locFirstPostLike); err != nil {
		return err
	}
	return p.WaitFor("like counter increments", 0, func() bool {
		after, err := p.FirstPostLikeCount()
		return err == nil && after == before+1
	})
}

// FirstPostLikeCount reads the like counter of the newest post.
func (p *SocialPage) FirstPostLikeCount() (int, error) {
	text, err := p.TextOf(locFirstPostLikes)
	if err != nil {
		return 0, err
	}
	if text == "" {
		return 0, nil
	}
	return strconv.Atoi(text)
}

// CommentOnFirstPost adds a comment and waits for it to render.
func (p *SocialPage) CommentOnFirstPost(text string) error {
	if err := p.Type(locCommentInput, text); err != nil {
		return err
	}
	if err := p.Click(locCommentSubmit); err != nil {
		return err
	}
	content, err := p.FirstPostContent()
	if err != nil {
		return err
	}
	_, err = p.WaitVisible(postCommentByText(content, text), 0)
	return err
}

// DeletePostByContent removes a post through its card menu, confirming
// the modal, and returns once the post has left the feed.
func (p *SocialPage) DeletePostByContent(content string) error {
	if err := p.Click(postDeleteByContent(content)); err != nil {
		return err
	}
	if err := p.Click(locConfirmDelete); err != nil {
		return err
	}
	if err := p.WaitSuccessToast(); err != nil {
		return err
	}
	return p.WaitInvisible(postByContent(content), 0)
}
