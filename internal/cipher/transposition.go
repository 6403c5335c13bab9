package cipher

import (
	"fmt"
	"math"
	"strings"
)

// Transposition ciphers by writing the text row-wise into a key-wide matrix
// and reading it column-wise. No charset is involved.
type Transposition struct{}

// transpositionMatrix holds text characters during transposition. Cells set
// to unused mark positions beyond the text length.
type transpositionMatrix [][]rune

const unusedCell rune = -1

// Cipher transposes text using the given key.
func (Transposition) Cipher(text string, key int) (string, error) {
	return transposeText(text, key, true)
}

// Decipher recovers text transposed with the given key.
func (Transposition) Decipher(text string, key int) (string, error) {
	return transposeText(text, key, false)
}

func transposeText(text string, key int, ciphering bool) (string, error) {
	runes := []rune(text)
	if key <= 0 {
		return "", fmt.Errorf("%w: transposition key must be greater than 0, got %d", ErrInvalidKey, key)
	}
	if key >= len(runes) {
		return text, nil
	}
	matrix := createTranspositionMatrix(key, len(runes), ciphering)
	populateTranspositionMatrix(runes, matrix)
	return transposedText(matrix), nil
}

// createTranspositionMatrix builds the matrix in its default state. For
// ciphering the matrix is ceil(n/key) rows by key columns with the trailing
// unused cells at the end of the last row; for deciphering dimensions are
// swapped and the unused cells sit at the bottom of the last column.
func createTranspositionMatrix(key, textLength int, ciphering bool) transpositionMatrix {
	rows := int(math.Ceil(float64(textLength) / float64(key)))
	columns := key
	if !ciphering {
		rows, columns = key, rows
	}
	matrix := make(transpositionMatrix, rows)
	for i := range matrix {
		matrix[i] = make([]rune, columns)
	}
	unused := rows*columns - textLength
	if ciphering {
		for i := 0; i < unused; i++ {
			matrix[rows-1][columns-1-i] = unusedCell
		}
	} else {
		for i := 0; i < unused; i++ {
			matrix[rows-1-i][columns-1] = unusedCell
		}
	}
	return matrix
}

// populateTranspositionMatrix fills text characters row-wise, skipping
// unused cells.
func populateTranspositionMatrix(text []rune, matrix transpositionMatrix) {
	next := 0
	for row := range matrix {
		for column := range matrix[row] {
			if matrix[row][column] == unusedCell || next >= len(text) {
				continue
			}
			matrix[row][column] = text[next]
			next++
		}
	}
}

// transposedText reads the populated matrix column-wise, skipping unused
// cells.
func transposedText(matrix transpositionMatrix) string {
	var out strings.Builder
	for column := 0; column < len(matrix[0]); column++ {
		for row := range matrix {
			if matrix[row][column] == unusedCell {
				continue
			}
			out.WriteRune(matrix[row][column])
		}
	}
	return out.String()
}
