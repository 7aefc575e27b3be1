// Package normalisers provides implementations of the AttributeNormaliser
// interface. Each normaliser turns the raw cells of one attribute kind into
// canonical components: lexicon lookups for lithology and sample attributes,
// level classification for pollutant concentrations.
//
// Normalisers are registered with the Registry at startup.
package normalisers
