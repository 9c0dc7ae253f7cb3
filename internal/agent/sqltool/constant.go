package sqltool

// DefaultMaxResultRows caps how many result rows are rendered back into
// the conversation when the config leaves the cap unset.
const DefaultMaxResultRows = 50
