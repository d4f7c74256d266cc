// Package bank holds record types loaded by the analyzer tests.
package bank

type BBAN interface{ isBBAN() }

type DEBBAN struct {
	BankCode      string `fixed:",width=8"`
	AccountNumber string `fixed:",width=10,class=numeric"`
}

func (DEBBAN) isBBAN()               {}
func (DEBBAN) FixedPattern() string { return "${bankCode}${accountNumber}" }

type Holder struct {
	Country string `fixed:",width=2"`
	Name    string `fixed:"holderName,width=20"`
}

type Record struct {
	Kind string `fixed:"recordType,width=2"`
}

type Transaction struct {
	Record
	Date   string `fixed:",width=8"`
	Amount int64  `fixed:",width=12,scale=2"`
	Text   string `fixed:",width=25"`
}

type Statement struct {
	ID      string        `fixed:",width=10"`
	Holder  *Holder       `fixed:",container"`
	Entries []Transaction `fixed:",container"`
	Secret  string        `fixed:"-"`
	note    string
}

type Plain struct {
	Value int
}

type Currency string
