package verse

import "errors"

var (
	// ErrResponseFormat means the provider answered but the payload was
	// not the expected JSON shape.
	ErrResponseFormat = errors.New("response format invalid")
	// ErrAuthentication means the provider rejected our credentials.
	ErrAuthentication = errors.New("provider authentication failed")
	// ErrNetwork covers transport failures and request timeouts.
	ErrNetwork = errors.New("provider unreachable")
	// ErrLookupInFlight is returned while another lookup is running.
	ErrLookupInFlight = errors.New("lookup already in flight")
	// ErrLookupDisabled is returned when lookup is switched off or no
	// provider is configured.
	ErrLookupDisabled = errors.New("lookup disabled")
	// ErrVerseNotSaved is returned when an operation targets a reference
	// that is not in the saved list.
	ErrVerseNotSaved = errors.New("verse not saved")
)

// User-facing messages, in the product language.
const (
	MsgResponseFormat = "সার্ভার থেকে প্রাপ্ত তথ্য সঠিক ফরম্যাটে নেই।"
	MsgAuthentication = "এপিআই কী যাচাই করা যায়নি।"
	MsgNetwork        = "এপিআই এর সাথে সংযোগ করা যাচ্ছে না।"
	MsgLookupInFlight = "একটি অনুসন্ধান এখনো চলছে, একটু অপেক্ষা করুন।"
	MsgLookupDisabled = "অনুসন্ধান সুবিধাটি এখন বন্ধ আছে।"
	MsgVerseNotSaved  = "এই বাণীটি সংরক্ষিত তালিকায় নেই।"
)
