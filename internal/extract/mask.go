package extract

// maskLines blanks out comments and the contents of string and character
// literals so that braces, parentheses and keywords inside them are not
// seen by the structural passes. Every masked line keeps the byte length
// of its source line, so positions can be used on both.
func maskLines(lines []string) []string {
	masked := make([]string, len(lines))
	inBlock := false
	for i, line := range lines {
		b := []byte(line)
		var quote byte
		for j := 0; j < len(b); j++ {
			c := b[j]
			switch {
			case inBlock:
				if c == '*' && j+1 < len(b) && b[j+1] == '/' {
					b[j], b[j+1] = ' ', ' '
					j++
					inBlock = false
					continue
				}
				b[j] = ' '
			case quote != 0:
				if c == '\\' && j+1 < len(b) {
					b[j], b[j+1] = ' ', ' '
					j++
					continue
				}
				if c == quote {
					quote = 0
					continue
				}
				b[j] = ' '
			case c == '"' || c == '\'':
				quote = c
			case c == '/' && j+1 < len(b) && b[j+1] == '/':
				for k := j; k < len(b); k++ {
					b[k] = ' '
				}
				j = len(b)
			case c == '/' && j+1 < len(b) && b[j+1] == '*':
				b[j], b[j+1] = ' ', ' '
				j++
				inBlock = true
			}
		}
		masked[i] = string(b)
	}
	return masked
}
