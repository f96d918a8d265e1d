package main

// person is the demo record every zenctl subcommand round-trips. It
// exercises the aggregate fallback (no Serialize method of its own)
// rather than a hand-written one.
type person struct {
	Name  string
	Age   int
	Email string
}
