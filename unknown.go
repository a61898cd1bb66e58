package webrtc

// Unknown defines the default public constant to use for "enum" like struct
// comparisons when no value was defined.
const Unknown = iota
