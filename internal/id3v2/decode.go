package id3v2

import (
	"strings"

	"github.com/simonhull/audiotag/internal/types"
)

// v22Upgrades maps ID3v2.2 frame IDs to their ID3v2.4 equivalents.
var v22Upgrades = map[string]string{
	"BUF": "RBUF", "CNT": "PCNT", "COM": "COMM", "CRA": "AENC",
	"ETC": "ETCO", "GEO": "GEOB", "IPL": "TIPL", "MCI": "MCDI",
	"MLL": "MLLT", "PIC": "APIC", "POP": "POPM", "REV": "RVRB",
	"SLT": "SYLT", "STC": "SYTC", "TAL": "TALB", "TBP": "TBPM",
	"TCM": "TCOM", "TCO": "TCON", "TCP": "TCMP", "TCR": "TCOP",
	"TDY": "TDLY", "TEN": "TENC", "TFT": "TFLT", "TKE": "TKEY",
	"TLA": "TLAN", "TLE": "TLEN", "TMT": "TMED", "TOA": "TOPE",
	"TOF": "TOFN", "TOL": "TOLY", "TOR": "TDOR", "TOT": "TOAL",
	"TP1": "TPE1", "TP2": "TPE2", "TP3": "TPE3", "TP4": "TPE4",
	"TPA": "TPOS", "TPB": "TPUB", "TRC": "TSRC", "TRK": "TRCK",
	"TSS": "TSSE", "TT1": "TIT1", "TT2": "TIT2", "TT3": "TIT3",
	"TXT": "TEXT", "TXX": "TXXX", "TYE": "TDRC", "UFI": "UFID",
	"ULT": "USLT", "WAF": "WOAF", "WAR": "WOAR", "WAS": "WOAS",
	"WCM": "WCOM", "WCP": "WCOP", "WPB": "WPUB", "WXX": "WXXX",
}

// v23Upgrades renames ID3v2.3 frames replaced in ID3v2.4.
var v23Upgrades = map[string]string{
	"TYER": "TDRC",
	"TORY": "TDOR",
	"IPLS": "TIPL",
}

// v23Downgrades is applied when writing ID3v2.3.
var v23Downgrades = map[string]string{
	"TDRC": "TYER",
	"TDOR": "TORY",
	"TIPL": "IPLS",
}

// upgradeID maps a frame ID read from a tag of version v to ID3v2.4.
// Unmapped ID3v2.2 IDs keep their 3 characters.
func upgradeID(id string, v Version) string {
	switch v {
	case V22:
		if up, ok := v22Upgrades[id]; ok {
			return up
		}
	case V23:
		if up, ok := v23Upgrades[id]; ok {
			return up
		}
	}
	return id
}

// decodeFrame decodes frame content. Errors are always returned; the
// frame loop decides whether they are fatal.
func decodeFrame(id string, data []byte, v Version) (Frame, error) {
	switch {
	case id == "TXXX":
		return decodeUserTextFrame(data, v)
	case id == "WXXX":
		return decodeExtendedURLFrame(data, v)
	case id == "COMM", id == "USLT":
		return decodeCommentFrame(id, data, v)
	case id == "APIC":
		return decodePictureFrame(data, v)
	case len(id) == 4 && id[0] == 'T':
		return decodeTextFrame(id, data, v)
	case len(id) == 4 && id[0] == 'W':
		url, err := decodeText(data, EncodingLatin1)
		if err != nil {
			return nil, err
		}
		return &URLFrame{FrameID: id, URL: trimText(url)}, nil
	default:
		return &BinaryFrame{FrameID: id, Data: data}, nil
	}
}

// encodingPrefix splits off and verifies the leading encoding byte.
func encodingPrefix(id string, data []byte, v Version) (TextEncoding, []byte, error) {
	if len(data) == 0 {
		return 0, nil, types.Decodef(types.TagTypeID3v2, "%s: missing text encoding", id)
	}
	enc, err := verifyEncoding(data[0], v)
	if err != nil {
		return 0, nil, err
	}
	return enc, data[1:], nil
}

func decodeTextFrame(id string, data []byte, v Version) (Frame, error) {
	enc, rest, err := encodingPrefix(id, data, v)
	if err != nil {
		return nil, err
	}
	value, err := decodeText(rest, enc)
	if err != nil {
		return nil, err
	}
	return &TextFrame{FrameID: id, Encoding: enc, Value: trimText(value)}, nil
}

func decodeUserTextFrame(data []byte, v Version) (Frame, error) {
	enc, rest, err := encodingPrefix("TXXX", data, v)
	if err != nil {
		return nil, err
	}
	desc, rest, err := readTerminated(rest, enc)
	if err != nil {
		return nil, err
	}
	value, err := decodeText(rest, enc)
	if err != nil {
		return nil, err
	}
	return &UserTextFrame{Encoding: enc, Description: desc, Value: trimText(value)}, nil
}

func decodeCommentFrame(id string, data []byte, v Version) (Frame, error) {
	enc, rest, err := encodingPrefix(id, data, v)
	if err != nil {
		return nil, err
	}
	if len(rest) < 3 {
		return nil, types.Decodef(types.TagTypeID3v2, "%s: missing language", id)
	}
	lang := string(rest[:3])
	desc, rest, err := readTerminated(rest[3:], enc)
	if err != nil {
		return nil, err
	}
	text, err := decodeText(rest, enc)
	if err != nil {
		return nil, err
	}
	return &CommentFrame{
		FrameID:     id,
		Encoding:    enc,
		Language:    lang,
		Description: desc,
		Text:        trimText(text),
	}, nil
}

func decodeExtendedURLFrame(data []byte, v Version) (Frame, error) {
	enc, rest, err := encodingPrefix("WXXX", data, v)
	if err != nil {
		return nil, err
	}
	desc, rest, err := readTerminated(rest, enc)
	if err != nil {
		return nil, err
	}
	content, err := decodeText(rest, EncodingLatin1)
	if err != nil {
		return nil, err
	}
	return &ExtendedURLFrame{Encoding: enc, Description: desc, Content: trimText(content)}, nil
}

// v22ImageFormats maps the 3-character image format of ID3v2.2 PIC frames.
var v22ImageFormats = map[string]string{
	"JPG": "image/jpeg",
	"PNG": "image/png",
	"GIF": "image/gif",
	"BMP": "image/bmp",
}

func decodePictureFrame(data []byte, v Version) (Frame, error) {
	enc, rest, err := encodingPrefix("APIC", data, v)
	if err != nil {
		return nil, err
	}

	var mime string
	if v == V22 {
		if len(rest) < 3 {
			return nil, types.Decodef(types.TagTypeID3v2, "PIC: missing image format")
		}
		format := strings.ToUpper(string(rest[:3]))
		mime = v22ImageFormats[format]
		if mime == "" && format != "-->" {
			mime = "image/" + strings.ToLower(format)
		}
		rest = rest[3:]
	} else {
		if mime, rest, err = readTerminated(rest, EncodingLatin1); err != nil {
			return nil, err
		}
	}

	if len(rest) == 0 {
		return nil, types.Decodef(types.TagTypeID3v2, "APIC: missing picture type")
	}
	pictureType := types.PictureTypeFromByte(uint32(rest[0]))
	desc, rest, err := readTerminated(rest[1:], enc)
	if err != nil {
		return nil, err
	}
	if len(rest) == 0 {
		return nil, types.Decodef(types.TagTypeID3v2, "APIC: no picture data")
	}

	if mime == "" || !strings.Contains(mime, "/") {
		if sniffed := types.SniffMIME(rest); sniffed != "" {
			mime = sniffed
		}
	}

	return &PictureFrame{
		Encoding: enc,
		Picture: types.Picture{
			Type:        pictureType,
			MIMEType:    strings.ToLower(mime),
			Description: desc,
			Data:        rest,
		},
	}, nil
}
