package paymethod

// Method is one configured payment-method instance. Code identifies the
// gateway module behind it (e.g. "OGONE"); an order references the instance
// it was checked out with.
type Method struct {
	ID      uint
	Code    string
	Title   string
	Enabled bool
}
