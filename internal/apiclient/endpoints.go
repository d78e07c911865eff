package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/omniapp-io/omniapp-qa/internal/qaerr"
)

// Domain helpers over the endpoint groups the demo application exposes.
// Create* helpers are the arrange path of UI tests; Delete* helpers are
// fixture cleanup and therefore report an explicit CleanupStatus instead
// of treating 404 as an error.

// Me returns the authenticated user record.
func (c *Client) Me(ctx context.Context) (gjson.Result, error) {
	resp, err := c.Call(ctx, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return gjson.Result{}, err
	}
	return resp.JSON(), nil
}

// --- users ---

func (c *Client) CreateUser(ctx context.Context, email, password, name string) (gjson.Result, error) {
	resp, err := c.Call(ctx, http.MethodPost, "/users", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	})
	if err != nil {
		return gjson.Result{}, err
	}
	return resp.JSON(), nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*Response, error) {
	return c.Get(ctx, "/users/"+id)
}

func (c *Client) DeleteUser(ctx context.Context, id string) qaerr.CleanupStatus {
	return c.cleanupDelete(ctx, "/users/"+id)
}

// --- products and cart ---

func (c *Client) ListProducts(ctx context.Context) (gjson.Result, error) {
	resp, err := c.Call(ctx, http.MethodGet, "/products", nil)
	if err != nil {
		return gjson.Result{}, err
	}
	return resp.JSON(), nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*Response, error) {
	return c.Get(ctx, "/products/"+id)
}

func (c *Client) AddToCart(ctx context.Context, productID string, quantity int) (gjson.Result, error) {
	resp, err := c.Call(ctx, http.MethodPost, "/cart/items", map[string]any{
		"product_id": productID,
		"quantity":   quantity,
	})
	if err != nil {
		return gjson.Result{}, err
	}
	return resp.JSON(), nil
}

func (c *Client) GetCart(ctx context.Context) (gjson.Result, error) {
	resp, err := c.Call(ctx, http.MethodGet, "/cart", nil)
	if err != nil {
		return gjson.Result{}, err
	}
	return resp.JSON(), nil
}

func (c *Client) ClearCart(ctx context.Context) qaerr.CleanupStatus {
	return c.cleanupDelete(ctx, "/cart")
}

// --- social posts ---

func (c *Client) CreatePost(ctx context.Context, content string) (gjson.Result, error) {
	resp, err := c.Call(ctx, http.MethodPost, "/posts", map[string]string{
		"content": content,
	})
	if err != nil {
		return gjson.Result{}, err
	}
	return resp.JSON(), nil
}

func (c *Client) GetPost(ctx context.Context, id string) (*Response, error) {
	return c.Get(ctx, "/posts/"+id)
}

func (c *Client) LikePost(ctx context.Context, id string) error {
	_, err := c.Call(ctx, http.MethodPost, fmt.Sprintf("/posts/%s/like", id), nil)
	return err
}

func (c *Client) CommentOnPost(ctx context.Context, id, text string) (gjson.Result, error) {
	resp, err := c.Call(ctx, http.MethodPost, fmt.Sprintf("/posts/%s/comments", id), map[string]string{
		"text": text,
	})
	if err != nil {
		return gjson.Result{}, err
	}
	return resp.JSON(), nil
}

func (c *Client) DeletePost(ctx context.Context, id string) qaerr.CleanupStatus {
	return c.cleanupDelete(ctx, "/posts/"+id)
}

// --- kanban tasks and boards ---

func (c *Client) CreateBoard(ctx context.Context, name string) (gjson.Result, error) {
	resp, err := c.Call(ctx, http.MethodPost, "/boards", map[string]string{
		"name": name,
	})
	if err != nil {
		return gjson.Result{}, err
	}
	return resp.JSON(), nil
}

func (c *Client) DeleteBoard(ctx context.Context, id string) qaerr.CleanupStatus {
	return c.cleanupDelete(ctx, "/boards/"+id)
}

func (c *Client) CreateTask(ctx context.Context, boardID, title, column string) (gjson.Result, error) {
	resp, err := c.Call(ctx, http.MethodPost, "/tasks", map[string]string{
		"board_id": boardID,
		"title":    title,
		"status":   column,
	})
	if err != nil {
		return gjson.Result{}, err
	}
	return resp.JSON(), nil
}

func (c *Client) GetTask(ctx context.Context, id string) (*Response, error) {
	return c.Get(ctx, "/tasks/"+id)
}

func (c *Client) AssignTask(ctx context.Context, id, userID string) error {
	_, err := c.Call(ctx, http.MethodPost, fmt.Sprintf("/tasks/%s/assign", id), map[string]string{
		"user_id": userID,
	})
	return err
}

func (c *Client) SetTaskStatus(ctx context.Context, id, status string) error {
	_, err := c.Call(ctx, http.MethodPatch, fmt.Sprintf("/tasks/%s/status", id), map[string]string{
		"status": status,
	})
	return err
}

func (c *Client) DeleteTask(ctx context.Context, id string) qaerr.CleanupStatus {
	return c.cleanupDelete(ctx, "/tasks/"+id)
}

// --- content articles ---

func (c *Client) CreateArticle(ctx context.Context, title, body string) (gjson.Result, error) {
	resp, err := c.Call(ctx, http.MethodPost, "/articles", map[string]string{
		"title": title,
		"body":  body,
	})
	if err != nil {
		return gjson.Result{}, err
	}
	return resp.JSON(), nil
}

func (c *Client) GetArticle(ctx context.Context, id string) (*Response, error) {
	return c.Get(ctx, "/articles/"+id)
}

func (c *Client) PublishArticle(ctx context.Context, id string) error {
	_, err := c.Call(ctx, http.MethodPost, fmt.Sprintf("/articles/%s/publish", id), nil)
	return err
}

func (c *Client) DeleteArticle(ctx context.Context, id string) qaerr.CleanupStatus {
	return c.cleanupDelete(ctx, "/articles/"+id)
}

// --- analytics ---

func (c *Client) GetMetrics(ctx context.Context) (gjson.Result, error) {
	resp, err := c.Call(ctx, http.MethodGet, "/analytics/metrics", nil)
	if err != nil {
		return gjson.Result{}, err
	}
	return resp.JSON(), nil
}

func (c *Client) GetCharts(ctx context.Context, rangeName string) (gjson.Result, error) {
	resp, err := c.Call(ctx, http.MethodGet, "/analytics/charts?range="+rangeName, nil)
	if err != nil {
		return gjson.Result{}, err
	}
	return resp.JSON(), nil
}

func (c *Client) GetReport(ctx context.Context, name string) (gjson.Result, error) {
	resp, err := c.Call(ctx, http.MethodGet, "/analytics/reports/"+name, nil)
	if err != nil {
		return gjson.Result{}, err
	}
	return resp.JSON(), nil
}

// cleanupDelete issues a DELETE where "already gone" counts as success.
func (c *Client) cleanupDelete(ctx context.Context, path string) qaerr.CleanupStatus {
	resp, err := c.Delete(ctx, path)
	if err != nil {
		c.log.Warn().Err(err).Str("path", path).Msg("cleanup delete failed")
		return qaerr.CleanupFailed
	}
	switch {
	case resp.OK():
		return qaerr.CleanupDeleted
	case resp.Status == http.StatusNotFound || resp.Status == http.StatusGone:
		return qaerr.CleanupAlreadyGone
	default:
		c.log.Warn().Int("status", resp.Status).Str("path", path).Msg("cleanup delete rejected")
		return qaerr.CleanupFailed
	}
}
