package main

import (
	"context"
	"fmt"

	"alerta/snmptrap/alert"
	"alerta/snmptrap/logger"
	"alerta/snmptrap/trap"
)

// Handler turns the text of one trap into an alert ready to send.
type Handler struct {
	decoder     *trap.Decoder
	transformer alert.Transformer
	translator  alert.Translator
	log         logger.Logger
}

// Result is what became of one trap. Alert is nil when the alert was
// suppressed or the trap could not be handled.
type Result struct {
	TrapOID string
	Alert   *alert.Alert
}

func NewHandler(lg logger.Logger, transformer alert.Transformer, translator alert.Translator) *Handler {
	if transformer == nil {
		transformer = alert.NopTransformer{}
	}
	if translator == nil {
		translator = alert.PlaceholderTranslator{}
	}
	return &Handler{
		decoder:     trap.NewDecoder(lg),
		transformer: transformer,
		translator:  translator,
		log:         lg,
	}
}

// Handle returns a nil alert and a nil error when the alert is suppressed.
func (h *Handler) Handle(ctx context.Context, data string) (*alert.Alert, error) {
	res, err := h.Process(ctx, data)
	return res.Alert, err
}

// Process is Handle that also reports the trap OID, which is known as soon as
// the trap is decoded.
func (h *Handler) Process(ctx context.Context, data string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	decoded, err := h.decoder.Decode(data)
	if err != nil {
		return Result{}, err
	}
	res := Result{TrapOID: decoded.Event}

	a := alert.NewFromTrap(decoded)
	suppress, err := h.transformer.Transform(a, decoded.Event, decoded.Vars)
	if err != nil {
		return res, err
	}
	if suppress {
		h.log.Warning(fmt.Sprintf("Suppressing alert %s", a.GetID()))
		return res, nil
	}
	h.translator.Translate(a, decoded.Vars)
	res.Alert = a
	return res, nil
}
