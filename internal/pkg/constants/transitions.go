package constants

// donationTransitions lists the legal next states per donation status.
var donationTransitions = map[string][]string{
	DonationAvailable: {DonationReserved, DonationExpired},
	DonationReserved:  {DonationDonated, DonationExpired},
}

// requestTransitions lists the legal next states per request status.
// pending -> matched is only reachable through the match operation.
var requestTransitions = map[string][]string{
	RequestPending: {RequestMatched, RequestCancelled},
	RequestMatched: {RequestFulfilled, RequestCancelled},
}

// CanTransitionDonation reports whether a donation may move from -> to.
func CanTransitionDonation(from, to string) bool {
	return contains(donationTransitions[from], to)
}

// CanTransitionRequest reports whether a request may move from -> to.
func CanTransitionRequest(from, to string) bool {
	return contains(requestTransitions[from], to)
}

// RequestSourcesFor returns every status a request may leave to reach to.
func RequestSourcesFor(to string) []string {
	var out []string
	for _, from := range []string{RequestPending, RequestMatched, RequestFulfilled, RequestCancelled} {
		if CanTransitionRequest(from, to) {
			out = append(out, from)
		}
	}
	return out
}
