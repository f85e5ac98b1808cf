// Package recommend maps a vehicle to a Teltonika tracking device and CAN
// adapter. The decision is an ordered rule table evaluated first-match-wins:
// heavy vehicles go to FMC650 over FMS/J1939, light vehicles get FMC150 with
// the highest priority adapter that has a year-fitting compatibility record,
// and everything else falls back to FMC150 + LV-CAN200 marked as unverified.
package recommend
