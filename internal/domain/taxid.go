package domain

// ValidTaxID checks the tax id against the client type: an 11-digit CPF for
// individuals, a 14-digit CNPJ for businesses. Both carry two mod-11 check
// digits.
func ValidTaxID(t ClientType, id string) bool {
	d, ok := digits(id)
	if !ok {
		return false
	}
	switch t {
	case ClientIndividual:
		return len(d) == 11 && !repeated(d) &&
			d[9] == checkDigit(d[:9], []int{10, 9, 8, 7, 6, 5, 4, 3, 2}) &&
			d[10] == checkDigit(d[:10], []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2})
	case ClientBusiness:
		return len(d) == 14 && !repeated(d) &&
			d[12] == checkDigit(d[:12], []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}) &&
			d[13] == checkDigit(d[:13], []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2})
	}
	return false
}

// digits drops the usual punctuation (".", "-", "/") and rejects anything else.
func digits(s string) ([]int, bool) {
	out := make([]int, 0, len(s))
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			out = append(out, int(r-'0'))
		case r == '.' || r == '-' || r == '/':
		default:
			return nil, false
		}
	}
	return out, true
}

func repeated(d []int) bool {
	for _, v := range d[1:] {
		if v != d[0] {
			return false
		}
	}
	return true
}

func checkDigit(d, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += d[i] * w
	}
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}
