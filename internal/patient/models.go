// Package patient is the patient-record collaborator boundary. The decision
// engine only needs lookup by name and a redacted/decrypted view; storage of
// patient records belongs to the records system.
package patient

// Record is a patient record as stored: Diagnosis, Treatment, and Notes are
// ciphertext until a decrypter runs over them.
type Record struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Age       int    `json:"age"`
	Diagnosis string `json:"diagnosis,omitempty"`
	Treatment string `json:"treatment,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// SensitiveFields are the fields held encrypted at rest and only decrypted
// for restricted and emergency tier grants.
var SensitiveFields = []string{"diagnosis", "treatment", "notes"}

// Summary returns the redacted view for normal-tier grants: identifying
// demographics only, no decrypted clinical fields.
func (r *Record) Summary() *Record {
	return &Record{
		ID:   r.ID,
		Name: r.Name,
		Age:  r.Age,
	}
}
