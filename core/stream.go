package core

import (
	"fmt"

	"github.com/tsawler/pdfsegment/internal/filters"
)

// Decode applies the stream's /Filter chain and returns the decoded data.
// Image codecs (DCT, JPX, JBIG2) are left encoded; callers that need pixels
// hand the bytes to an image decoder.
func (s *Stream) Decode() ([]byte, error) {
	names, params, err := s.filterChain()
	if err != nil {
		return nil, err
	}

	data := s.Data
	for i, name := range names {
		data, err = decodeWithFilter(data, name, params[i])
		if err != nil {
			return nil, fmt.Errorf("filter %d (%s) failed: %w", i, name, err)
		}
	}
	return data, nil
}

// Filters returns the filter names applied to the stream, outermost first.
func (s *Stream) Filters() []string {
	names, _, _ := s.filterChain()
	return names
}

// filterChain normalises /Filter and /DecodeParms into parallel slices.
func (s *Stream) filterChain() ([]string, []Dict, error) {
	filterObj := s.Dict.Get("Filter")
	paramsObj := s.Dict.Get("DecodeParms")
	if paramsObj == nil {
		paramsObj = s.Dict.Get("DP")
	}

	switch f := filterObj.(type) {
	case nil, Null:
		return nil, nil, nil
	case Name:
		return []string{string(f)}, []Dict{paramsDict(paramsObj)}, nil
	case Array:
		names := make([]string, len(f))
		params := make([]Dict, len(f))
		for i, item := range f {
			n, ok := item.(Name)
			if !ok {
				return nil, nil, fmt.Errorf("filter %d is not a name: %T", i, item)
			}
			names[i] = string(n)
			if arr, ok := paramsObj.(Array); ok {
				params[i] = paramsDict(arr.Get(i))
			} else {
				params[i] = paramsDict(paramsObj)
			}
		}
		return names, params, nil
	}
	return nil, nil, fmt.Errorf("invalid Filter type: %T", filterObj)
}

func decodeWithFilter(data []byte, name string, params Dict) ([]byte, error) {
	switch name {
	case "FlateDecode", "Fl":
		return filters.FlateDecode(data, toParams(params))
	case "LZWDecode", "LZW":
		p := toParams(params)
		out, err := filters.LZWDecode(data, p)
		if err != nil {
			return nil, err
		}
		return filters.Unpredict(out, p)
	case "ASCIIHexDecode", "AHx":
		return filters.ASCIIHexDecode(data)
	case "ASCII85Decode", "A85":
		return filters.ASCII85Decode(data)
	case "RunLengthDecode", "RL":
		return filters.RunLengthDecode(data)
	case "CCITTFaxDecode", "CCF":
		return filters.CCITTFaxDecode(data, toParams(params))
	case "DCTDecode", "DCT", "JPXDecode", "JBIG2Decode":
		return data, nil
	case "Crypt":
		return nil, fmt.Errorf("encrypted streams are not supported")
	}
	return nil, fmt.Errorf("unknown filter: %s", name)
}

func paramsDict(obj Object) Dict {
	d, _ := obj.(Dict)
	return d
}

// toParams converts a DecodeParms dictionary to Go values for the filters
// package.
func toParams(dict Dict) filters.Params {
	if dict == nil {
		return nil
	}
	params := make(filters.Params, len(dict))
	for k, v := range dict {
		switch obj := v.(type) {
		case Int:
			params[k] = int(obj)
		case Real:
			params[k] = float64(obj)
		case Bool:
			params[k] = bool(obj)
		case Name:
			params[k] = string(obj)
		case String:
			params[k] = string(obj)
		default:
			params[k] = v
		}
	}
	return params
}
