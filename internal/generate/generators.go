package generate

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/formulador-mga/mga-cli/internal/config"
	"github.com/formulador-mga/mga-cli/internal/docwriter"
	"github.com/formulador-mga/mga-cli/internal/model"
	"github.com/formulador-mga/mga-cli/pkg/anthropic"
)

// Options carries task-specific augmentation: a subset of sections to
// render and whether the run revises an existing document.
type Options struct {
	Sections []string
	EditMode bool
}

// Generator renders one document type from the shared field map. The return
// shape is heterogeneous on purpose: a plain file path or a result value
// exposing a filepath, normalized at the orchestrator boundary.
type Generator interface {
	DocType() model.DocType
	Generate(ctx context.Context, fields model.FieldMap, opts Options) (any, error)
}

// Result is the structured return shape used by the richer generators.
type Result struct {
	FilePath string
	Sections int
}

// docSpec describes one document type's prompt surface.
type docSpec struct {
	docType  model.DocType
	title    string
	sections []string
	// structured signals the generator to return a Result instead of a
	// bare path, matching the original per-generator variance.
	structured bool
}

var docSpecs = []docSpec{
	{
		docType: model.DocEstudiosPrevios,
		title:   "Estudios Previos",
		sections: []string{
			"Descripción de la necesidad",
			"Objeto a contratar y especificaciones",
			"Modalidad de selección y su justificación",
			"Valor estimado del contrato y su justificación",
			"Criterios de selección",
			"Análisis de riesgos",
			"Garantías exigidas",
		},
	},
	{
		docType: model.DocAnalisisSector,
		title:   "Análisis del Sector",
		sections: []string{
			"Aspecto económico del sector",
			"Aspecto técnico",
			"Aspecto regulatorio",
			"Análisis de la demanda",
			"Análisis de la oferta",
			"Análisis de riesgos del sector",
		},
	},
	{
		docType: model.DocDTS,
		title:   "Documento Técnico de Soporte",
		sections: []string{
			"Diagnóstico de la situación actual",
			"Justificación del proyecto",
			"Articulación con planes de desarrollo",
			"Objetivos y metas",
			"Descripción técnica de la alternativa",
			"Presupuesto y cronograma",
		},
		structured: true,
	},
	{
		docType: model.DocCertificaciones,
		title:   "Certificaciones",
		sections: []string{
			"Certificación de no doble cofinanciación",
			"Certificación de cumplimiento de requisitos sectoriales",
			"Certificación de sostenibilidad del proyecto",
			"Certificación de precios del mercado",
		},
	},
	{
		docType: model.DocMGASubsidios,
		title:   "MGA Subsidios",
		sections: []string{
			"Datos básicos del proyecto",
			"Contribución a la política pública",
			"Identificación y descripción del problema",
			"Participantes y población",
			"Objetivos e indicadores",
			"Alternativas y cadena de valor",
			"Fuentes de financiación",
		},
		structured: true,
	},
}

const generateSystemPrompt = `Eres un experto formulador de proyectos de inversión pública en Colombia (metodología MGA del DNP).
Redacta contenido técnico y formal para documentos soporte de proyectos.
- USA ÚNICAMENTE los datos proporcionados; nunca inventes valores, nombres ni fechas.
- Si un dato no está disponible, escribe "Por definir".
- Escribe cada sección solicitada bajo un encabezado "## <nombre de la sección>".`

// modelGenerator is the shared implementation behind the five document
// types: prompt from the field map, one model call, DOCX assembly.
type modelGenerator struct {
	spec      docSpec
	client    anthropic.Client
	modelName string
	maxTokens int64
	outputDir string
}

func (g *modelGenerator) DocType() model.DocType { return g.spec.docType }

func (g *modelGenerator) Generate(ctx context.Context, fields model.FieldMap, opts Options) (any, error) {
	sections := g.spec.sections
	if len(opts.Sections) > 0 {
		sections = opts.Sections
	}

	prompt := buildPrompt(g.spec, sections, fields, opts.EditMode)

	resp, err := g.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     g.modelName,
		MaxTokens: g.maxTokens,
		System:    anthropic.BuildCachedSystemBlocks(generateSystemPrompt),
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, err
	}
	resp.Usage.LogCost(g.modelName, "generate:"+string(g.spec.docType))

	doc := assembleDocument(g.spec.title, fields, resp.Text())

	name := fmt.Sprintf("%s_%s.docx", g.spec.docType, time.Now().Format("20060102_150405"))
	path := filepath.Join(g.outputDir, name)
	if err := docwriter.Write(path, doc); err != nil {
		return nil, err
	}

	if g.spec.structured {
		return Result{FilePath: path, Sections: len(sections)}, nil
	}
	return path, nil
}

// buildPrompt renders the per-document request: project data block,
// requested sections, and the raw context dump for free-text fallback.
func buildPrompt(spec docSpec, sections []string, fields model.FieldMap, editMode bool) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Genera el documento %q para el siguiente proyecto.\n\n", spec.title)

	sb.WriteString("DATOS DEL PROYECTO:\n")
	for _, name := range model.AllFields {
		if v, ok := fields[name]; ok && v != "" {
			fmt.Fprintf(&sb, "%s: %s\n", name, v)
		}
	}

	if uc := fields[model.KeyUserContext]; uc != "" {
		sb.WriteString("\nCONTEXTO ADICIONAL DEL USUARIO:\n")
		sb.WriteString(uc)
		sb.WriteString("\n")
	}

	if dump := fields[model.KeyContextDump]; dump != "" {
		sb.WriteString("\nCONTEXTO ADICIONAL DEL DOCUMENTO (DUMP DATA):\n")
		if len(dump) > 6000 {
			dump = dump[:6000]
		}
		sb.WriteString(dump)
		sb.WriteString("\n")
	}

	sb.WriteString("\nSECCIONES A GENERAR:\n")
	for i, s := range sections {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, s)
	}

	if editMode {
		sb.WriteString("\nMODO EDICIÓN: revisa y mejora el contenido existente manteniendo los datos originales.\n")
	}

	return sb.String()
}

// assembleDocument splits the model reply into heading and body paragraphs.
// "## " lines become headings; blank-line-separated blocks become body text.
func assembleDocument(title string, fields model.FieldMap, reply string) docwriter.Document {
	docTitle := title
	if p := fields["nombre_proyecto"]; p != "" {
		docTitle = title + " — " + p
	}

	doc := docwriter.Document{Title: docTitle}
	for _, block := range strings.Split(reply, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		for _, line := range strings.Split(block, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			switch {
			case strings.HasPrefix(line, "## "):
				doc.Paragraphs = append(doc.Paragraphs, docwriter.Paragraph{
					Text:    strings.TrimPrefix(line, "## "),
					Heading: 1,
				})
			case strings.HasPrefix(line, "### "):
				doc.Paragraphs = append(doc.Paragraphs, docwriter.Paragraph{
					Text:    strings.TrimPrefix(line, "### "),
					Heading: 2,
				})
			default:
				doc.Paragraphs = append(doc.Paragraphs, docwriter.Paragraph{Text: line})
			}
		}
	}
	return doc
}

// buildGenerators resolves one generator per document type bound to the
// given model handle.
func buildGenerators(client anthropic.Client, aiCfg config.AnthropicConfig, outputDir string) []Generator {
	maxTokens := aiCfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	gens := make([]Generator, 0, len(docSpecs))
	for _, spec := range docSpecs {
		gens = append(gens, &modelGenerator{
			spec:      spec,
			client:    client,
			modelName: aiCfg.Model,
			maxTokens: maxTokens,
			outputDir: outputDir,
		})
	}
	return gens
}
