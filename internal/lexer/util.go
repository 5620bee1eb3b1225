package lexer

// Классы символов в духе <ctype.h> для ASCII; всё, что >= 0x80, ни к одному не относится.

func isSpace(b byte) bool {
	return b == ' ' || (b >= '\t' && b <= '\r')
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isOct(b byte) bool { return b >= '0' && b <= '7' }

func isHex(b byte) bool {
	return isDec(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isLower(b byte) bool { return b >= 'a' && b <= 'z' }

func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }

func isIdentContinue(b byte) bool {
	return isLower(b) || isUpper(b) || isDec(b) || b == '_'
}

func isPunct(b byte) bool {
	return (b > ' ' && b < 0x7f && !isIdentContinue(b)) || b == '_'
}

func digitVal(b byte) uint64 {
	switch {
	case isDec(b):
		return uint64(b - '0')
	case b >= 'a' && b <= 'f':
		return uint64(b-'a') + 10
	case b >= 'A' && b <= 'F':
		return uint64(b-'A') + 10
	}
	return 16
}
