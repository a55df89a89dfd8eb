package nodemap

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/matzehuels/lobbymap/pkg/errors"
)

// Keyword is the iTXt keyword under which the node map is stored.
const Keyword = "Draw List"

const pngSignature = "\x89PNG\r\n\x1a\n"

// maxChunk bounds a single chunk's payload; PNG allows 2^31-1.
const maxChunk = 1<<31 - 1

type chunk struct {
	typ  string
	data []byte
}

func readChunks(r io.Reader) ([]chunk, error) {
	sig := make([]byte, len(pngSignature))
	if _, err := io.ReadFull(r, sig); err != nil {
		return nil, errors.Malformed(err, "read png signature")
	}
	if string(sig) != pngSignature {
		return nil, errors.New(errors.ErrCodeMalformedInput, "not a png image")
	}

	var chunks []chunk
	var hdr [8]byte
	for {
		_, err := io.ReadFull(r, hdr[:])
		if err != nil {
			return nil, errors.Malformed(err, "read png chunk header")
		}
		n := binary.BigEndian.Uint32(hdr[:4])
		if n > maxChunk {
			return nil, errors.New(errors.ErrCodeMalformedInput, "png chunk too large (%d bytes)", n)
		}
		c := chunk{typ: string(hdr[4:8])}
		if c.data, err = readN(r, int64(n)); err != nil {
			return nil, errors.Malformed(err, "read png %s chunk", c.typ)
		}
		var crc [4]byte
		if _, err := io.ReadFull(r, crc[:]); err != nil {
			return nil, errors.Malformed(err, "read png %s checksum", c.typ)
		}
		if binary.BigEndian.Uint32(crc[:]) != checksum(c.typ, c.data) {
			return nil, errors.New(errors.ErrCodeMalformedInput, "png %s chunk checksum mismatch", c.typ)
		}
		chunks = append(chunks, c)
		if c.typ == "IEND" {
			return chunks, nil
		}
	}
}

// readN reads exactly n bytes, growing the buffer only as data arrives so a
// forged length cannot force a large allocation.
func readN(r io.Reader, n int64) ([]byte, error) {
	var buf bytes.Buffer
	copied, err := io.CopyN(&buf, r, n)
	if copied < n {
		if err == nil || err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf.Bytes(), nil
}

func checksum(typ string, data []byte) uint32 {
	h := crc32.NewIEEE()
	h.Write([]byte(typ))
	h.Write(data)
	return h.Sum32()
}

func writeChunk(w io.Writer, c chunk) error {
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[:4], uint32(len(c.data)))
	copy(hdr[4:], c.typ)
	var crc [4]byte
	binary.BigEndian.PutUint32(crc[:], checksum(c.typ, c.data))
	for _, b := range [][]byte{hdr[:], c.data, crc[:]} {
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}

// itxt is a decoded iTXt chunk.
type itxt struct {
	keyword    string
	compressed bool
	text       string
}

func encodeITXt(keyword, text string) []byte {
	var b bytes.Buffer
	b.WriteString(keyword)
	b.WriteByte(0)
	b.WriteByte(0) // compression flag
	b.WriteByte(0) // compression method
	b.WriteByte(0) // empty language tag
	b.WriteByte(0) // empty translated keyword
	b.WriteString(text)
	return b.Bytes()
}

func decodeITXt(data []byte) (itxt, error) {
	var t itxt
	kw, rest, ok := bytes.Cut(data, []byte{0})
	if !ok || len(rest) < 2 {
		return t, errors.New(errors.ErrCodeMalformedInput, "truncated iTXt chunk")
	}
	t.keyword = string(kw)
	t.compressed = rest[0] == 1
	rest = rest[2:]
	// language tag, translated keyword
	for range 2 {
		_, after, ok := bytes.Cut(rest, []byte{0})
		if !ok {
			return t, errors.New(errors.ErrCodeMalformedInput, "truncated iTXt chunk %q", t.keyword)
		}
		rest = after
	}
	if !t.compressed {
		t.text = string(rest)
		return t, nil
	}
	zr, err := zlib.NewReader(bytes.NewReader(rest))
	if err != nil {
		return t, errors.Malformed(err, "inflate iTXt chunk %q", t.keyword)
	}
	defer zr.Close()
	text, err := io.ReadAll(zr)
	if err != nil {
		return t, errors.Malformed(err, "inflate iTXt chunk %q", t.keyword)
	}
	t.text = string(text)
	return t, nil
}

// Embed copies the PNG in src to dst, storing text in an iTXt chunk under
// [Keyword]. Existing chunks with the same keyword are dropped; every other
// chunk, pixel data included, is copied verbatim.
func Embed(dst io.Writer, src io.Reader, text string) error {
	chunks, err := readChunks(src)
	if err != nil {
		return err
	}
	if len(chunks) == 0 || chunks[0].typ != "IHDR" {
		return errors.New(errors.ErrCodeMalformedInput, "png does not start with IHDR")
	}

	if _, err := io.WriteString(dst, pngSignature); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write png")
	}
	for i, c := range chunks {
		if c.typ == "iTXt" {
			if t, err := decodeITXt(c.data); err == nil && t.keyword == Keyword {
				continue
			}
		}
		if err := writeChunk(dst, c); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write png %s chunk", c.typ)
		}
		if i == 0 {
			if err := writeChunk(dst, chunk{typ: "iTXt", data: encodeITXt(Keyword, text)}); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "write png iTXt chunk")
			}
		}
	}
	return nil
}

// Extract returns the text stored under [Keyword]. A PNG without such a
// chunk is MALFORMED_INPUT.
func Extract(r io.Reader) (string, error) {
	chunks, err := readChunks(r)
	if err != nil {
		return "", err
	}
	for _, c := range chunks {
		if c.typ != "iTXt" {
			continue
		}
		t, err := decodeITXt(c.data)
		if err != nil {
			return "", err
		}
		if t.keyword == Keyword {
			return t.text, nil
		}
	}
	return "", errors.New(errors.ErrCodeMalformedInput, "png has no iTXt chunk %q", Keyword)
}

// ReadPNG extracts and decodes the node map embedded in a PNG.
func ReadPNG(r io.Reader) (NodeMap, error) {
	text, err := Extract(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal([]byte(text))
}

// WritePNG copies the PNG in src to dst with nm embedded.
func WritePNG(dst io.Writer, src io.Reader, nm NodeMap) error {
	data, err := Marshal(nm)
	if err != nil {
		return err
	}
	return Embed(dst, src, string(data))
}
