package noteenc

import "unicode/utf8"

// memoNoneLeadByte is the memo-type byte of the "no memo" sentinel
// (0xF6). A lead byte of 0x00-0xF4 marks a UTF-8 text memo; 0xF5 and
// 0xF7-0xFF are future/unknown memo types.
const memoNoneLeadByte = 0xF6

// MemoText decodes a 512-byte memo field into a display string: empty
// for the explicit "no memo" sentinel or a non-text memo type, and the
// trimmed UTF-8 text otherwise.
func MemoText(memoBytes []byte) string {
	if len(memoBytes) == 0 {
		return ""
	}
	if memoBytes[0] == memoNoneLeadByte {
		return ""
	}
	if memoBytes[0] > 0xF4 {
		return ""
	}
	end := len(memoBytes)
	for end > 0 && memoBytes[end-1] == 0 {
		end--
	}
	text := memoBytes[:end]
	if !utf8.Valid(text) {
		return ""
	}
	return string(text)
}
