package chain

import "strings"

// TxURL returns the explorer link for a transaction hash.
func (c *Chain) TxURL(hash string) string {
	return strings.TrimSuffix(c.Explorer, "/") + "/tx/" + hash
}

// AddressURL returns the explorer link for an address.
func (c *Chain) AddressURL(addr string) string {
	return strings.TrimSuffix(c.Explorer, "/") + "/address/" + addr
}
