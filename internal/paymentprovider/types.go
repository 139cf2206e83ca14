package paymentprovider

// CreateSessionParams is the input for a hosted Checkout Session: a single
// line item priced in integer cents, correlation metadata, and the URLs the
// customer is routed to after the gateway.
type CreateSessionParams struct {
	ProductName string
	Description string
	AmountCents int64
	Currency    string
	Quantity    int
	Metadata    map[string]string
	SuccessURL  string
	CancelURL   string
}

// CheckoutSession is the subset of the gateway response the app uses.
type CheckoutSession struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	URL    string `json:"url"` // hosted payment page to redirect to
}

// apiError mirrors the gateway's error envelope.
type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
