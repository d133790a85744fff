// Package hash provides the checksum used by bitspin containers.
//
// All matrix containers carry a CRC32-Castagnoli (CRC32C) of the uncompressed
// matrix bytes. Go's crc32 package uses SSE4.2 or the ARM CRC extension when
// present, so checksumming a multi-gigabyte tier matrix stays well below the
// cost of rotating it.
//
//	sum := hash.CRC32C(m.Bytes())
//
//	h := hash.NewCRC32C()
//	h.Write(row)
//	sum = h.Sum32()
package hash
