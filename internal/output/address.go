package output

// ShortAddress abbreviates a 0x-prefixed hex address for display, keeping
// the first six and last four characters.
func ShortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
