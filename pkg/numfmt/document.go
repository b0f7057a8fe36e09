package numfmt

import "strings"

// IsValidDocument reports whether value holds a CPF or CNPJ with valid check
// digits. Formatting characters are ignored.
func IsValidDocument(value string) bool {
	digits := Digits(value)
	switch len(digits) {
	case 11:
		return validCPF(digits)
	case 14:
		return validCNPJ(digits)
	default:
		return false
	}
}

func validCPF(cpf string) bool {
	if allSame(cpf) {
		return false
	}
	for _, n := range []int{9, 10} {
		sum := 0
		for i := 0; i < n; i++ {
			sum += digitAt(cpf, i) * (n + 1 - i)
		}
		remainder := (sum * 10) % 11
		if remainder == 10 {
			remainder = 0
		}
		if remainder != digitAt(cpf, n) {
			return false
		}
	}
	return true
}

func validCNPJ(cnpj string) bool {
	if allSame(cnpj) {
		return false
	}
	for _, size := range []int{12, 13} {
		sum := 0
		pos := size - 7
		for i := 0; i < size; i++ {
			sum += digitAt(cnpj, i) * pos
			pos--
			if pos < 2 {
				pos = 9
			}
		}
		result := 0
		if sum%11 >= 2 {
			result = 11 - sum%11
		}
		if result != digitAt(cnpj, size) {
			return false
		}
	}
	return true
}

func allSame(digits string) bool {
	return strings.Count(digits, digits[:1]) == len(digits)
}

func digitAt(s string, i int) int {
	return int(s[i] - '0')
}
