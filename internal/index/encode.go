package index

import "encoding/binary"

// key = invTime(8) + 0x00 + id. Times before 1970 sort with undated posts.
func makeTimeIDKey(unixNano int64, id string) []byte {
	if unixNano < 0 {
		unixNano = 0
	}
	buf := make([]byte, 0, 8+1+len(id))
	buf = binary.BigEndian.AppendUint64(buf, ^uint64(unixNano))
	buf = append(buf, 0x00)
	return append(buf, id...)
}

func idFromTimeIDKey(k []byte) string {
	if len(k) < 8+2 || k[8] != 0x00 {
		return ""
	}
	return string(k[9:])
}

func countryKey(country int) []byte {
	return binary.BigEndian.AppendUint32(nil, uint32(country))
}

// key = province(4) + invTime(8) + 0x00 + id
func makeRegionKey(province int, unixNano int64, id string) []byte {
	buf := make([]byte, 0, 4+8+1+len(id))
	buf = binary.BigEndian.AppendUint32(buf, uint32(province))
	return append(buf, makeTimeIDKey(unixNano, id)...)
}

func provincePrefix(province int) []byte {
	return binary.BigEndian.AppendUint32(nil, uint32(province))
}

func idFromRegionKey(k []byte) string {
	if len(k) < 4 {
		return ""
	}
	return idFromTimeIDKey(k[4:])
}
