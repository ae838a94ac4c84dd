package task

import captcha "github.com/anatolykoptev/go-captcha"

// ProxyKeys names a provider's proxy task fields.
type ProxyKeys struct {
	Type     string
	Address  string
	Port     string
	Login    string
	Password string
}

// ProxyFields maps p onto a provider's proxy fields. The protocol type is
// always "http"; login and password are present only when p carries them.
func ProxyFields(p *captcha.Proxy, keys ProxyKeys) Request {
	r := Request{
		keys.Type:    "http",
		keys.Address: p.Hostname(),
		keys.Port:    p.Port(),
	}
	if p.HasUsername() {
		r[keys.Login] = p.Username()
	}
	if p.HasPassword() {
		r[keys.Password] = p.Password()
	}
	return r
}
