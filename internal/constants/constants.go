package constants

const USER_AGENT = "clientboard/0.1.0 (+https://github.com/Amund211/clientboard)"
