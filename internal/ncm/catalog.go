// Package ncm provides lookup and search over the NCM tariff classification
// catalog (Nomenclatura Comum do Mercosul) and resolves the import tax rates
// applicable to a classification code.
package ncm

import (
	"github.com/shopspring/decimal"

	"github.com/importabr/landed/internal/tax"
)

// Entry is one catalog row: an 8-digit NCM code, its official description
// and the import rates that apply to it.
type Entry struct {
	Code        string
	Description string
	Rates       tax.RateSet
}

func rates(ii, ipi, pis, cofins, icms string) tax.RateSet {
	return tax.RateSet{
		II:     decimal.RequireFromString(ii),
		IPI:    decimal.RequireFromString(ipi),
		PIS:    decimal.RequireFromString(pis),
		COFINS: decimal.RequireFromString(cofins),
		ICMS:   decimal.RequireFromString(icms),
	}
}

// Catalog returns the built-in NCM table. The rate columns are data, not
// policy: the engine stays agnostic to where the table comes from, and a
// remote TEC/Siscomex feed can replace this without touching the cascade.
func Catalog() []Entry {
	return []Entry{
		// Eletrônicos e tecnologia
		{"85171100", "Telefones móveis celulares e smartphones", rates("0.16", "0.15", "0.0165", "0.076", "0.25")},
		{"85171200", "Telefones para redes celulares ou outras redes sem fio", rates("0.16", "0.15", "0.0165", "0.076", "0.25")},
		{"85176200", "Aparelhos receptores para radiotelefonia ou radiotelegrafia", rates("0.20", "0.15", "0.0165", "0.076", "0.25")},
		{"85234900", "Outros discos, fitas e suportes para gravação de som", rates("0.20", "0.15", "0.0165", "0.076", "0.18")},
		{"85287200", "Aparelhos receptores para televisão", rates("0.20", "0.20", "0.0165", "0.076", "0.18")},
		{"85444200", "Cabos coaxiais e outros condutores elétricos coaxiais", rates("0.14", "0.05", "0.0165", "0.076", "0.18")},
		{"84713000", "Máquinas automáticas para processamento de dados, portáteis", rates("0.16", "0.05", "0.0165", "0.076", "0.18")},
		{"84714100", "Máquinas automáticas para processamento de dados com unidade central", rates("0.16", "0.05", "0.0165", "0.076", "0.18")},
		{"85258000", "Câmeras de televisão, câmeras fotográficas digitais e de vídeo", rates("0.18", "0.15", "0.0165", "0.076", "0.18")},

		// Vestuário e moda
		{"61051000", "Camisas de malha de algodão, para homens ou rapazes", rates("0.35", "0.05", "0.0165", "0.076", "0.18")},
		{"61091000", "T-shirts e camisetas de malha de algodão", rates("0.35", "0.05", "0.0165", "0.076", "0.18")},
		{"61103000", "Suéteres, pulôveres e cardigãs de fibras sintéticas", rates("0.35", "0.05", "0.0165", "0.076", "0.18")},
		{"61124000", "Maiôs e biquínis de malha de fibras sintéticas", rates("0.35", "0.05", "0.0165", "0.076", "0.18")},
		{"62033100", "Paletós de lã ou pelos finos, para homens ou rapazes", rates("0.35", "0.05", "0.0165", "0.076", "0.18")},
		{"62034200", "Calças, bermudas e shorts de algodão, para homens ou rapazes", rates("0.35", "0.05", "0.0165", "0.076", "0.18")},
		{"62046200", "Calças, bermudas e shorts de algodão, para mulheres ou meninas", rates("0.35", "0.05", "0.0165", "0.076", "0.18")},
		{"62052000", "Camisas de fibras sintéticas, para homens ou rapazes", rates("0.35", "0.05", "0.0165", "0.076", "0.18")},
		{"62121000", "Sutiãs de qualquer matéria têxtil", rates("0.35", "0.05", "0.0165", "0.076", "0.18")},

		// Calçados e acessórios
		{"64032000", "Calçados com sola de couro natural cobrindo o tornozelo", rates("0.35", "0.15", "0.0165", "0.076", "0.18")},
		{"64039900", "Outros calçados com sola de borracha, plástico ou couro", rates("0.35", "0.15", "0.0165", "0.076", "0.18")},
		{"64041900", "Outros calçados com sola de borracha ou plástico", rates("0.35", "0.15", "0.0165", "0.076", "0.18")},
		{"90031900", "Outras armações de óculos e armações semelhantes", rates("0.20", "0.15", "0.0165", "0.076", "0.18")},
		{"90041000", "Óculos de sol", rates("0.20", "0.15", "0.0165", "0.076", "0.18")},
		{"71131900", "Artigos de joalharia de metais preciosos", rates("0.20", "0.15", "0.0165", "0.076", "0.18")},
		{"71171900", "Bijuterias de outros metais comuns", rates("0.20", "0.15", "0.0165", "0.076", "0.18")},

		// Artigos de couro e bagagem
		{"42021100", "Malas e maletas com superfície exterior de couro natural", rates("0.20", "0.15", "0.0165", "0.076", "0.18")},
		{"42021200", "Malas e maletas com superfície exterior de plástico ou têxtil", rates("0.20", "0.15", "0.0165", "0.076", "0.18")},
		{"42022100", "Bolsas com superfície exterior de couro natural", rates("0.20", "0.15", "0.0165", "0.076", "0.18")},
		{"42022200", "Bolsas com superfície exterior de plástico ou matérias têxteis", rates("0.20", "0.15", "0.0165", "0.076", "0.18")},
		{"42031000", "Vestuário de couro natural ou reconstituído", rates("0.20", "0.15", "0.0165", "0.076", "0.18")},

		// Automóveis e veículos
		{"87032100", "Automóveis de cilindrada não superior a 1000 cm³", rates("0.35", "0.25", "0.0165", "0.076", "0.12")},
		{"87032300", "Automóveis de cilindrada entre 1500 cm³ e 3000 cm³", rates("0.35", "0.25", "0.0165", "0.076", "0.12")},
		{"87089900", "Outras partes e acessórios para veículos automóveis", rates("0.18", "0.15", "0.0165", "0.076", "0.18")},
		{"87141000", "Partes e acessórios de motocicletas", rates("0.20", "0.15", "0.0165", "0.076", "0.18")},

		// Casa e jardim
		{"73211100", "Aparelhos de cozinhar de ferro fundido, ferro ou aço", rates("0.20", "0.10", "0.0165", "0.076", "0.18")},
		{"73239300", "Artigos de mesa ou cozinha de aço inoxidável", rates("0.20", "0.15", "0.0165", "0.076", "0.18")},
		{"94035000", "Móveis de madeira para dormitórios", rates("0.20", "0.10", "0.0165", "0.076", "0.18")},
		{"94036000", "Outros móveis de madeira", rates("0.20", "0.10", "0.0165", "0.076", "0.18")},
		{"94054000", "Outros aparelhos de iluminação elétrica", rates("0.20", "0.15", "0.0165", "0.076", "0.18")},
		{"63049200", "Artigos de cama de fibras sintéticas", rates("0.20", "0.10", "0.0165", "0.076", "0.18")},

		// Brinquedos e jogos
		{"95030000", "Brinquedos de madeira", rates("0.20", "0.30", "0.0165", "0.076", "0.18")},
		{"95032000", "Brinquedos com motor elétrico", rates("0.20", "0.30", "0.0165", "0.076", "0.18")},
		{"95034900", "Outros jogos de construção", rates("0.20", "0.30", "0.0165", "0.076", "0.18")},
		{"95051000", "Artigos para festas de Natal", rates("0.20", "0.30", "0.0165", "0.076", "0.18")},

		// Cosméticos e cuidados pessoais
		{"33049900", "Produtos de beleza, maquiagem e cuidados da pele", rates("0.18", "0.15", "0.0165", "0.076", "0.18")},
		{"33051000", "Xampus", rates("0.18", "0.15", "0.0165", "0.076", "0.18")},
		{"33061000", "Dentifrícios", rates("0.18", "0.15", "0.0165", "0.076", "0.18")},
		{"34011100", "Sabões em barras, pães ou pedaços moldados", rates("0.18", "0.10", "0.0165", "0.076", "0.18")},

		// Ferramentas e equipamentos
		{"82032000", "Alicates, tenazes, pinças e ferramentas semelhantes", rates("0.14", "0.05", "0.0165", "0.076", "0.18")},
		{"82054000", "Chaves de fenda", rates("0.14", "0.05", "0.0165", "0.076", "0.18")},
		{"84669200", "Partes e acessórios para máquinas-ferramentas", rates("0.14", "0.05", "0.0165", "0.076", "0.18")},

		// Artigos esportivos
		{"95062900", "Outras bolas infláveis", rates("0.20", "0.15", "0.0165", "0.076", "0.18")},
		{"95065100", "Raquetes de tênis, mesmo não encordoadas", rates("0.20", "0.15", "0.0165", "0.076", "0.18")},
		{"95069100", "Artigos e equipamentos para ginástica ou atletismo", rates("0.20", "0.15", "0.0165", "0.076", "0.18")},

		// Produtos alimentícios
		{"18063200", "Chocolates e preparações com cacau em blocos ou barras", rates("0.20", "0.05", "0.0165", "0.076", "0.12")},
		{"19053200", "Bolachas doces, waffles e wafers", rates("0.18", "0.05", "0.0165", "0.076", "0.12")},
		{"21069000", "Outras preparações alimentícias", rates("0.14", "0.05", "0.0165", "0.076", "0.12")},
		{"22021000", "Águas, incluindo minerais e gaseificadas", rates("0.20", "0.05", "0.0165", "0.076", "0.12")},
	}
}

// popularCodes are the classifications most frequently used in new
// calculations, surfaced as suggestions before the user types a query.
var popularCodes = []string{"85171200", "85176200", "62034200", "64039900", "61103000"}
