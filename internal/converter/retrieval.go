// File path: internal/converter/retrieval.go
package converter

import (
	"fmt"

	"github.com/nicodishanthj/flowlang/internal/diag"
	"github.com/nicodishanthj/flowlang/internal/ir"
	"github.com/nicodishanthj/flowlang/internal/schema"
)

func retrievalConverters() []Converter {
	return []Converter{
		&textSplitterConverter{typeName: "recursiveCharacterTextSplitter", class: "RecursiveCharacterTextSplitter"},
		&textSplitterConverter{typeName: "characterTextSplitter", class: "CharacterTextSplitter"},
		textFileConverter{},
		cheerioWebScraperConverter{},
		openAIEmbeddingsConverter{},
		memoryVectorStoreConverter{},
		pineconeStoreConverter{},
	}
}

// textSplitterConverter covers the splitter family. The classes share
// a constructor shape in both targets, so only the class name varies.
type textSplitterConverter struct {
	typeName string
	class    string
}

func (c *textSplitterConverter) NodeTypes() []string { return []string{c.typeName} }

func (c *textSplitterConverter) Convert(node *schema.Node, gctx *ir.Context) ([]ir.Fragment, error) {
	name := gctx.EnsureVar(node.ID, "textSplitter")
	chunkSize := formatNumber(numberOr(node, "chunkSize", 1000))
	overlap := formatNumber(numberOr(node, "chunkOverlap", 200))

	if gctx.Target == ir.TargetPython {
		return []ir.Fragment{
			importPy("langchain_text_splitters", c.class),
			initFragment(0, fmt.Sprintf(
				"%s = %s(chunk_size=%s, chunk_overlap=%s)",
				name, c.class, chunkSize, overlap)),
		}, nil
	}
	return []ir.Fragment{
		importTS("langchain/text_splitter", c.class),
		initFragment(0, fmt.Sprintf(
			"const %s = new %s({ chunkSize: %s, chunkOverlap: %s });",
			name, c.class, chunkSize, overlap)),
	}, nil
}

func (c *textSplitterConverter) Dependencies(node *schema.Node, gctx *ir.Context) []string {
	if gctx.Target == ir.TargetPython {
		return []string{"langchain-text-splitters"}
	}
	return []string{"langchain"}
}

type textFileConverter struct{}

func (textFileConverter) NodeTypes() []string { return []string{"textFile"} }

func (textFileConverter) Convert(node *schema.Node, gctx *ir.Context) ([]ir.Fragment, error) {
	name := gctx.EnsureVar(node.ID, "textFile")
	path := inputOr(node, "txtFile", "document.txt")

	if gctx.Target == ir.TargetPython {
		fragments := []ir.Fragment{
			importPy("langchain_community.document_loaders", "TextLoader"),
			setupFragment(0, fmt.Sprintf("%s = TextLoader(\"%s\")", name, escapeString(path))),
		}
		if splitter, ok := inputVar(gctx, node, "textSplitter"); ok {
			fragments = append(fragments, initFragment(0, fmt.Sprintf(
				"%s_docs = %s.load_and_split(%s)", name, name, splitter)))
		} else {
			fragments = append(fragments, initFragment(0, fmt.Sprintf(
				"%s_docs = %s.load()", name, name)))
		}
		return fragments, nil
	}

	fragments := []ir.Fragment{
		importTS("langchain/document_loaders/fs/text", "TextLoader"),
		setupFragment(0, fmt.Sprintf("const %s = new TextLoader(\"%s\");", name, escapeString(path))),
	}
	if splitter, ok := inputVar(gctx, node, "textSplitter"); ok {
		fragments = append(fragments, initFragment(0, fmt.Sprintf(
			"const %sDocs = await %s.loadAndSplit(%s);", name, name, splitter)))
	} else {
		fragments = append(fragments, initFragment(0, fmt.Sprintf(
			"const %sDocs = await %s.load();", name, name)))
	}
	return fragments, nil
}

func (textFileConverter) Dependencies(node *schema.Node, gctx *ir.Context) []string {
	if gctx.Target == ir.TargetPython {
		return []string{"langchain-community"}
	}
	return []string{"langchain"}
}

type openAIEmbeddingsConverter struct{}

func (openAIEmbeddingsConverter) NodeTypes() []string { return []string{"openAIEmbeddings"} }

func (openAIEmbeddingsConverter) Convert(node *schema.Node, gctx *ir.Context) ([]ir.Fragment, error) {
	name := gctx.EnsureVar(node.ID, "openAIEmbeddings")
	if gctx.Target == ir.TargetPython {
		return []ir.Fragment{
			importPy("langchain_openai", "OpenAIEmbeddings"),
			initFragment(0, fmt.Sprintf("%s = OpenAIEmbeddings()", name)),
		}, nil
	}
	return []ir.Fragment{
		importTS("@langchain/openai", "OpenAIEmbeddings"),
		initFragment(0, fmt.Sprintf("const %s = new OpenAIEmbeddings();", name)),
	}, nil
}

func (openAIEmbeddingsConverter) Dependencies(node *schema.Node, gctx *ir.Context) []string {
	if gctx.Target == ir.TargetPython {
		return []string{"langchain-openai"}
	}
	return []string{"@langchain/openai"}
}

type memoryVectorStoreConverter struct{}

func (memoryVectorStoreConverter) NodeTypes() []string { return []string{"memoryVectorStore"} }

func (memoryVectorStoreConverter) Convert(node *schema.Node, gctx *ir.Context) ([]ir.Fragment, error) {
	name := gctx.EnsureVar(node.ID, "memoryVectorStore")
	embeddings, err := requireInput(gctx, node, "embeddings")
	if err != nil {
		return nil, err
	}
	document, documentWired := inputVar(gctx, node, "document")
	if !documentWired {
		issue := diag.New(diag.KindStructure, diag.CodeFallbackApplied,
			fmt.Sprintf("vector store %q starts empty because no document loader is wired", node.ID))
		issue.NodeID = node.ID
		gctx.Warn(issue)
	}

	if gctx.Target == ir.TargetPython {
		fragments := []ir.Fragment{importPy("langchain_core.vectorstores", "InMemoryVectorStore")}
		if documentWired {
			fragments = append(fragments, initFragment(0, fmt.Sprintf(
				"%s = InMemoryVectorStore.from_documents(%s_docs, %s)", name, document, embeddings)))
		} else {
			fragments = append(fragments, initFragment(0, fmt.Sprintf(
				"%s = InMemoryVectorStore(embedding=%s)", name, embeddings)))
		}
		return fragments, nil
	}

	fragments := []ir.Fragment{importTS("langchain/vectorstores/memory", "MemoryVectorStore")}
	if documentWired {
		fragments = append(fragments, initFragment(0, fmt.Sprintf(
			"const %s = await MemoryVectorStore.fromDocuments(%sDocs, %s);", name, document, embeddings)))
	} else {
		fragments = append(fragments, initFragment(0, fmt.Sprintf(
			"const %s = new MemoryVectorStore(%s);", name, embeddings)))
	}
	return fragments, nil
}

func (memoryVectorStoreConverter) Dependencies(node *schema.Node, gctx *ir.Context) []string {
	if gctx.Target == ir.TargetPython {
		return []string{"langchain-core"}
	}
	return []string{"langchain"}
}

type cheerioWebScraperConverter struct{}

func (cheerioWebScraperConverter) NodeTypes() []string { return []string{"cheerioWebScraper"} }

func (cheerioWebScraperConverter) Convert(node *schema.Node, gctx *ir.Context) ([]ir.Fragment, error) {
	name := gctx.EnsureVar(node.ID, "webScraper")
	url := inputOr(node, "url", "https://example.com")

	if gctx.Target == ir.TargetPython {
		fragments := []ir.Fragment{
			importPy("langchain_community.document_loaders", "WebBaseLoader"),
			setupFragment(0, fmt.Sprintf("%s = WebBaseLoader(\"%s\")", name, escapeString(url))),
		}
		if splitter, ok := inputVar(gctx, node, "textSplitter"); ok {
			fragments = append(fragments, initFragment(0, fmt.Sprintf(
				"%s_docs = %s.load_and_split(%s)", name, name, splitter)))
		} else {
			fragments = append(fragments, initFragment(0, fmt.Sprintf(
				"%s_docs = %s.load()", name, name)))
		}
		return fragments, nil
	}

	fragments := []ir.Fragment{
		importTS("@langchain/community/document_loaders/web/cheerio", "CheerioWebBaseLoader"),
		setupFragment(0, fmt.Sprintf("const %s = new CheerioWebBaseLoader(\"%s\");", name, escapeString(url))),
	}
	if splitter, ok := inputVar(gctx, node, "textSplitter"); ok {
		fragments = append(fragments, initFragment(0, fmt.Sprintf(
			"const %sDocs = await %s.loadAndSplit(%s);", name, name, splitter)))
	} else {
		fragments = append(fragments, initFragment(0, fmt.Sprintf(
			"const %sDocs = await %s.load();", name, name)))
	}
	return fragments, nil
}

func (cheerioWebScraperConverter) Dependencies(node *schema.Node, gctx *ir.Context) []string {
	if gctx.Target == ir.TargetPython {
		return []string{"langchain-community", "beautifulsoup4"}
	}
	return []string{"@langchain/community", "cheerio"}
}

type pineconeStoreConverter struct{}

func (pineconeStoreConverter) NodeTypes() []string { return []string{"pineconeStore", "pinecone"} }

func (pineconeStoreConverter) Convert(node *schema.Node, gctx *ir.Context) ([]ir.Fragment, error) {
	name := gctx.EnsureVar(node.ID, "pineconeStore")
	embeddings, err := requireInput(gctx, node, "embeddings")
	if err != nil {
		return nil, err
	}
	indexName := inputOr(node, "pineconeIndex", "flowlang-index")

	if gctx.Target == ir.TargetPython {
		return []ir.Fragment{
			importPy("langchain_pinecone", "PineconeVectorStore"),
			initFragment(0, fmt.Sprintf(
				"%s = PineconeVectorStore(index_name=\"%s\", embedding=%s)",
				name, escapeString(indexName), embeddings)),
		}, nil
	}

	client := gctx.EnsureVar(node.ID+"#client", "pineconeClient")
	index := gctx.EnsureVar(node.ID+"#index", "pineconeIndex")
	return []ir.Fragment{
		importTS("@langchain/pinecone", "PineconeStore"),
		importTS("@pinecone-database/pinecone", "Pinecone"),
		setupFragment(0, fmt.Sprintf("const %s = new Pinecone();", client)),
		setupFragment(1, fmt.Sprintf("const %s = %s.index(\"%s\");", index, client, escapeString(indexName))),
		initFragment(0, fmt.Sprintf(
			"const %s = await PineconeStore.fromExistingIndex(%s, { pineconeIndex: %s });",
			name, embeddings, index)),
	}, nil
}

func (pineconeStoreConverter) Dependencies(node *schema.Node, gctx *ir.Context) []string {
	if gctx.Target == ir.TargetPython {
		return []string{"langchain-pinecone"}
	}
	return []string{"@langchain/pinecone", "@pinecone-database/pinecone"}
}
