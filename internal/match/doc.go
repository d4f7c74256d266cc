// Package match ranks known names against an unknown one so that schema
// errors can offer "did you mean" hints. Names are compared after splitting
// them into words, which makes "bank_code", "BankCode" and "bankCode" equal.
package match
