package pages

import (
	"fmt"
	"strconv"
)

var (
	locProductGrid      = css(".product-grid", "product grid")
	locProductCard      = css(".product-card", "product card")
	locFirstProduct     = css(".product-card:first-child", "first product card")
	locFirstProductAdd  = css(".product-card:first-child button.add-to-cart", "first product add button")
	locFirstProductName = css(".product-card:first-child .product-name", "first product name")
	locCartBadge        = testID("cart-count", "cart counter badge")
	locShopSearchInput  = css("input#product-search", "product search input")
	locShopSearchBtn    = css("button#product-search-btn", "product search button")
	locCartIcon         = testID("cart-icon", "cart icon")
)

func productCardByName(name string) Locator {
	return css(fmt.Sprintf(`.product-card:has-text("%s")`, name), "product card "+name)
}

func productAddByName(name string) Locator {
	return css(fmt.Sprintf(`.product-card:has-text("%s") button.add-to-cart`, name), "add-to-cart for "+name)
}

// ShopPage is the e-commerce catalog screen.
type ShopPage struct {
	Base
}

func NewShopPage(env Env) *ShopPage {
	return &ShopPage{Base: newBase(env, "shop", "/shop", []Locator{locProductGrid, locProductCard})}
}

// CartCount reads the cart counter badge; an absent badge reads as zero.
func (p *ShopPage) CartCount() (int, error) {
	if !p.IsPresent(locCartBadge) {
		return 0, nil
	}
	text, err := p.TextOf(locCartBadge)
	if err != nil {
		return 0, err
	}
	if text == "" {
		return 0, nil
	}
	return strconv.Atoi(text)
}

// AddFirstProductToCart adds the top product and returns its name. The
// verb confirms itself against the cart counter, not against any network
// signal.
func (p *ShopPage) AddFirstProductToCart() (string, error) {
	name, err := p.TextOf(locFirstProductName)
	if err != nil {
		return "", err
	}
	before, err := p.CartCount()
	if err != nil {
		return "", err
	}
	if err := p.Click(locFirstProductAdd); err != nil {
		return "", err
	}
	err = p.WaitFor("cart counter increments", 0, func() bool {
		after, err := p.CartCount()
		return err == nil && after >= before+1
	})
	if err != nil {
		return "", err
	}
	return name, nil
}

// AddProductToCart adds a named product from the catalog.
func (p *ShopPage) AddProductToCart(name string) error {
	before, err := p.CartCount()
	if err != nil {
		return err
	}
	if err := p.Click(productAddByName(name)); err != nil {
		return err
	}
	return p.WaitFor("cart counter increments", 0, func() bool {
		after, err := p.CartCount()
		return err == nil && after >= before+1
	})
}

// HasProduct reports whether a product appears in the catalog.
func (p *ShopPage) HasProduct(name string) bool {
	return p.IsPresent(productCardByName(name))
}

// SearchProducts filters the catalog and waits for the overlay to clear.
func (p *ShopPage) SearchProducts(query string) error {
	if err := p.Type(locShopSearchInput, query); err != nil {
		return err
	}
	if err := p.Click(locShopSearchBtn); err != nil {
		return err
	}
	return p.WaitOverlayGone()
}

// OpenCart follows the cart icon to the cart screen.
func (p *ShopPage) OpenCart() (*CartPage, error) {
	if err := p.Click(locCartIcon); err != nil {
		return nil, err
	}
	next := NewCartPage(p.env)
	return next, next.WaitLoaded()
}
