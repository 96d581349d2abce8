// Package timezone pins every business date to the restaurant's local day.
//
// Daily bill, reservation and KOT numbers, reservation dates and wastage days are
// all computed in the zone named by APP_TIMEZONE (IANA name, UTC when unset).
package timezone
