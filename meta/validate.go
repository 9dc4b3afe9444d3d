package meta

// Validator decides whether a reference sequence is usable.
type Validator interface {
	Accept(seq string) bool
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(seq string) bool

// Accept implements Validator.
func (f ValidatorFunc) Accept(seq string) bool { return f(seq) }

// nucleotides lists the bytes accepted by DefaultValidator: A, C, G, T, N
// and the IUPAC ambiguity codes, which are read as N, in either case.
var nucleotides [256]bool

func init() {
	for _, c := range "ACGTNMKRYWSVBHD" {
		nucleotides[c] = true
		nucleotides[c-'A'+'a'] = true
	}
}

// DefaultValidator accepts a non-empty sequence if, after upcasing and
// reading every IUPAC ambiguity code as N, it contains only A, C, G, T and
// N.
var DefaultValidator Validator = ValidatorFunc(func(seq string) bool {
	if len(seq) == 0 {
		return false
	}
	for i := 0; i < len(seq); i++ {
		if !nucleotides[seq[i]] {
			return false
		}
	}
	return true
})
