package pages

import (
	"fmt"
	"strconv"
)

var (
	locCartContainer  = css(".cart-items", "cart items container")
	locCartItemName   = css(".cart-item .item-name", "cart item names")
	locPromoInput     = css("input#promo-code", "promo code input")
	locPromoApply     = css("button#apply-promo", "apply promo button")
	locDiscountRow    = css(".cart-summary .discount-row", "discount row")
	locCartTotal      = testID("cart-total", "cart total")
	locCheckoutButton = testID("checkout-button", "checkout button")
	locOrderConfirmed = css(".order-confirmation", "order confirmation")
	locOrderNumber    = testID("order-number", "order number")
	locClearCartBtn   = testID("clear-cart-button", "clear cart button")
)

func cartItemByName(name string) Locator {
	return css(fmt.Sprintf(`.cart-item:has-text("%s")`, name), "cart item "+name)
}

func cartItemQty(name string) Locator {
	return css(fmt.Sprintf(`.cart-item:has-text("%s") input.item-qty`, name), "quantity of "+name)
}

func cartItemRemove(name string) Locator {
	return css(fmt.Sprintf(`.cart-item:has-text("%s") button.remove-item`, name), "remove button of "+name)
}

// CartPage is the shopping cart screen.
type CartPage struct {
	Base
}

func NewCartPage(env Env) *CartPage {
	return &CartPage{Base: newBase(env, "cart", "/cart", []Locator{locCartContainer})}
}

// ItemNames lists the products currently in the cart.
func (p *CartPage) ItemNames() ([]string, error) {
	if !p.IsPresent(locCartItemName) {
		return nil, nil
	}
	return p.env.Driver().Find(locCartItemName.Selector()).Texts()
}

// HasItem reports whether the named product is in the cart.
func (p *CartPage) HasItem(name string) bool {
	return p.IsPresent(cartItemByName(name))
}

// QuantityOf reads the quantity field of a named item. The quantity is
// an input, so it is read as a form value.
func (p *CartPage) QuantityOf(name string) (int, error) {
	value, err := p.ValueOf(cartItemQty(name))
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(value)
}

// RemoveItem deletes a line item and waits for the row to disappear.
func (p *CartPage) RemoveItem(name string) error {
	if err := p.Click(cartItemRemove(name)); err != nil {
		return err
	}
	return p.WaitInvisible(cartItemByName(name), 0)
}

// ApplyPromoCode enters a promo code and waits for the discount row, the
// confirming UI change for this verb.
func (p *CartPage) ApplyPromoCode(code string) error {
	if err := p.Type(locPromoInput, code); err != nil {
		return err
	}
	if err := p.Click(locPromoApply); err != nil {
		return err
	}
	if _, err := p.WaitVisible(locDiscountRow, 0); err != nil {
		return err
	}
	return nil
}

// Total returns the displayed cart total, e.g. "$129.99".
func (p *CartPage) Total() (string, error) {
	return p.TextOf(locCartTotal)
}

// Checkout completes the purchase and returns the order number shown on
// the confirmation panel.
func (p *CartPage) Checkout() (string, error) {
	if err := p.Click(locCheckoutButton); err != nil {
		return "", err
	}
	if err := p.WaitOverlayGone(); err != nil {
		return "", err
	}
	if _, err := p.WaitVisible(locOrderConfirmed, 0); err != nil {
		return "", err
	}
	return p.TextOf(locOrderNumber)
}

// Clear empties the cart and waits until no items remain.
func (p *CartPage) Clear() error {
	if err := p.Click(locClearCartBtn); err != nil {
		return err
	}
	return p.WaitInvisible(locCartItemName, 0)
}
