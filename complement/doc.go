// Package complement scores how well one document complements another.
//
// Documents in the same project complement each other when they cover the
// same subject from different angles: a requirements document and its
// implementation guide, documents at different abstraction levels, a
// tutorial next to a reference, or documents built on the same technology.
// Across projects the finder looks for similar challenges and for
// business/technical pairings.
//
// Every signal that fires is a factor. The strongest factor counts in full
// and each further factor adds a diminishing increment, with the total capped
// at 0.95. When no factor fires a conservative fallback based on shared
// entities and topics never exceeds 0.5.
package complement
