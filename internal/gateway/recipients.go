package gateway

// selectRecipients returns the final recipient list: the request's numbers
// verbatim when present, otherwise the profile's defaults. No deduplication
// and no reordering; send order equals list order.
func selectRecipients(requested, profileDefaults []string) []string {
	if len(requested) > 0 {
		return requested
	}
	return profileDefaults
}
