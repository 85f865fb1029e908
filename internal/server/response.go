package server

type Msg string

const (
	OK     Msg = "OK"
	Bye    Msg = "BYE"
	Prompt Msg = "eeprom> "

	NoAuth Msg = "Not authenticated"
	NoPerm Msg = "Permission denied"
)

type Response struct {
	Msg   Msg
	Close bool
}

func Respond(m Msg) Response {
	return Response{Msg: m}
}

func Err(m Msg) Response {
	return Response{Msg: "ERR: " + m}
}

func Usage(usage string) Response {
	return Err(Msg("Usage " + usage))
}
