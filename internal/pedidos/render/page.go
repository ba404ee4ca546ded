package render

import (
	"golang.org/x/net/html"

	"simblissima-pedidos/internal/pedidos/notify"
)

const (
	bootstrapCSS   = "https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css"
	bootstrapIcons = "https://cdn.jsdelivr.net/npm/bootstrap-icons@1.11.3/font/bootstrap-icons.min.css"

	NewOrderBodyClass = "novo-pedido-page"
)

// LiveUpdatesScript swaps the order list for every fragment pushed on the live-updates socket.
const LiveUpdatesScript = `(function () {
  var scheme = location.protocol === "https:" ? "wss://" : "ws://";
  var socket = new WebSocket(scheme + location.host + "` + LiveUpdatesPath + `");
  socket.onmessage = function (event) {
    var list = document.getElementById("` + ListID + `");
    if (list) { list.outerHTML = event.data; }
  };
})();`

type Page struct {
	Title     string
	BodyClass string
	Toast     *notify.Message
	Content   *html.Node
	Scripts   []string
}

func (r *Renderer) Page(p Page) *html.Node {
	var bodyAttrs []html.Attribute
	if p.BodyClass != "" {
		bodyAttrs = attrs("class", p.BodyClass)
	}
	body := el("body", bodyAttrs, fragment(
		Toast(p.Toast),
		el("div", attrs("id", "content", "class", "container py-4"), p.Content),
	)...)
	for _, script := range p.Scripts {
		body.AppendChild(el("script", nil, text(script)))
	}

	return el("html", attrs("lang", "pt-BR"),
		el("head", nil,
			el("meta", attrs("charset", "utf-8")),
			el("meta", attrs("name", "viewport", "content", "width=device-width, initial-scale=1")),
			el("title", nil, text(p.Title)),
			el("link", attrs("rel", "stylesheet", "href", bootstrapCSS)),
			el("link", attrs("rel", "stylesheet", "href", bootstrapIcons)),
		),
		body,
	)
}

// Toast renders msg as a dismissible alert. A nil message renders nothing.
func Toast(msg *notify.Message) *html.Node {
	if msg == nil {
		return nil
	}
	severity := msg.Severity
	if severity == "" {
		severity = notify.Info
	}
	return el("div", attrs("class", "alert alert-"+string(severity)+" alert-dismissible toast-message", "role", "alert"),
		text(msg.Text),
		el("button", attrs("type", "button", "class", "btn-close", "data-bs-dismiss", "alert", "aria-label", "Fechar")),
	)
}

// OrdersView wraps list in the "Meus Pedidos" card.
func (r *Renderer) OrdersView(list *html.Node) *html.Node {
	return el("div", attrs("class", "pedidos-container"),
		el("div", attrs("class", "row justify-content-center"),
			el("div", attrs("class", "col-md-8"),
				el("div", attrs("class", "card"),
					el("div", attrs("class", "card-header d-flex justify-content-between align-items-center"),
						el("h3", attrs("class", "mb-0"), text("Meus Pedidos")),
						el("div", attrs("class", "pedidos-button-container d-flex gap-2"),
							el("a", attrs("class", "btn btn-primary", "href", NewOrderPath), text("Novo Pedido")),
							el("form", attrs("method", "post", "action", LeavePath),
								el("button", attrs("type", "submit", "class", "btn btn-secondary"), text("Voltar")),
							),
						),
					),
					el("div", attrs("class", "card-body"), list),
				),
			),
		),
	)
}
