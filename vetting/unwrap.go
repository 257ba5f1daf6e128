package vetting

// MaxUnwrapHops bounds how many gateway layers are peeled off one URL.
const MaxUnwrapHops = 5

// UnwrapResult describes where a submitted link really points.
type UnwrapResult struct {
	Original   string   `json:"original"`
	Display    string   `json:"display"`
	BaseDomain string   `json:"baseDomain"`
	Via        []string `json:"via"`
}

type unwrapState int

const (
	stateDecoding unwrapState = iota
	stateTerminal
	stateFailed
)

// Unwrapper peels link-gateway wrappers off URLs.
type Unwrapper struct {
	decoders []GatewayDecoder
	maxHops  int
}

func NewUnwrapper(decoders ...GatewayDecoder) *Unwrapper {
	return &Unwrapper{decoders: decoders, maxHops: MaxUnwrapHops}
}

// NewUnwrapperFromRegistry builds decoders for every gateway in reg, keeping
// the registry order as match priority.
func NewUnwrapperFromRegistry(reg *Registry) (*Unwrapper, error) {
	decoders := make([]GatewayDecoder, 0, len(reg.Gateways))
	for _, gw := range reg.Gateways {
		d, err := NewGatewayDecoder(gw)
		if err != nil {
			return nil, err
		}
		decoders = append(decoders, d)
	}
	return NewUnwrapper(decoders...), nil
}

// Unwrap follows gateway redirects in raw until no gateway matches, a
// gateway has nothing left to decode, or the hop limit is reached.
// raw must already be an absolute URL.
func (w *Unwrapper) Unwrap(raw string) (UnwrapResult, error) {
	via := []string{}
	current := raw
	state := stateDecoding

	for hop := 0; hop < w.maxHops && state == stateDecoding; hop++ {
		next, name, st, err := w.step(current)
		if name != "" {
			via = append(via, name)
		}
		if err != nil {
			return UnwrapResult{}, &ResolutionError{URL: current, Err: err}
		}
		state = st
		if state == stateDecoding {
			current = next
		}
	}

	host, err := hostOf(current)
	if err != nil {
		return UnwrapResult{}, &ResolutionError{URL: current, Err: err}
	}

	return UnwrapResult{
		Original:   raw,
		Display:    current,
		BaseDomain: BaseDomain(host),
		Via:        via,
	}, nil
}

// step runs one iteration: it returns the next URL and the name of the
// gateway that matched, if any.
func (w *Unwrapper) step(current string) (string, string, unwrapState, error) {
	u, err := parseAbsoluteURL(current)
	if err != nil {
		return "", "", stateFailed, err
	}
	host := NormalizeHost(u.Hostname())

	for _, d := range w.decoders {
		if !d.Matches(host) {
			continue
		}
		target, ok, err := d.Extract(u)
		if err != nil {
			return "", d.Name(), stateFailed, err
		}
		if !ok {
			return "", d.Name(), stateTerminal, nil
		}
		return target, d.Name(), stateDecoding, nil
	}
	return "", "", stateTerminal, nil
}
