package pages

import "fmt"

var (
	locArticleList    = css(".article-list", "article list")
	locNewArticleBtn  = testID("new-article", "new article button")
	locArticleTitleIn = css("input#article-title", "article title input")
	locArticleBodyIn  = css("textarea#article-body", "article body input")
	locArticleSave    = testID("article-save", "save article button")
)

func articleRow(title string) Locator {
	return css(fmt.Sprintf(`.article-row:has-text("%s")`, title), "article "+title)
}

func articlePublishBtn(title string) Locator {
	return css(fmt.Sprintf(`.article-row:has-text("%s") button.publish-article`, title), "publish button of "+title)
}

func articleStatusBadge(title string) Locator {
	return css(fmt.Sprintf(`.article-row:has-text("%s") .status-badge`, title), "status badge of "+title)
}

func articleAuthor(title string) Locator {
	return css(fmt.Sprintf(`.article-row:has-text("%s") .article-author`, title), "author of "+title)
}

// ArticleDetails is the record a content query returns.
type ArticleDetails struct {
	Title  string
	Status string
	Author string
}

// ContentPage is the articles management screen.
type ContentPage struct {
	Base
}

func NewContentPage(env Env) *ContentPage {
	return &ContentPage{Base: newBase(env, "content", "/content", []Locator{locArticleList})}
}

// CreateArticle drafts a new article and waits for it to appear in the
// list.
func (p *ContentPage) CreateArticle(title, body string) error {
	if err := p.Click(locNewArticleBtn); err != nil {
		return err
	}
	if err := p.Type(locArticleTitleIn, title); err != nil {
		return err
	}
	if err := p.Type(locArticleBodyIn, body); err != nil {
		return err
	}
	if err := p.Click(locArticleSave); err != nil {
		return err
	}
	if err := p.WaitSuccessToast(); err != nil {
		return err
	}
	_, err := p.WaitVisible(articleRow(title), 0)
	return err
}

// PublishArticle flips a draft to published and waits for the status
// badge to confirm it.
func (p *ContentPage) PublishArticle(title string) error {
	if err := p.Click(articlePublishBtn(title)); err != nil {
		return err
	}
	return p.WaitFor(fmt.Sprintf("article %q shows published", title), 0, func() bool {
		status, err := p.TextOf(articleStatusBadge(title))
		return err == nil && status == "published"
	})
}

// IsArticleListed reports whether the titled article is in the list.
func (p *ContentPage) IsArticleListed(title string) bool {
	return p.IsPresent(articleRow(title))
}

// ArticleDetailsOf reads the list row of an article.
func (p *ContentPage) ArticleDetailsOf(title string) (ArticleDetails, error) {
	status, err := p.TextOf(articleStatusBadge(title))
	if err != nil {
		return ArticleDetails{}, err
	}
	author, err := p.TextOf(articleAuthor(title))
	if err != nil {
		return ArticleDetails{}, err
	}
	return ArticleDetails{Title: title, Status: status, Author: author}, nil
}
